package postbox

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/G-Node/postbox/postbox/contact"
	"github.com/G-Node/postbox/postbox/db"
	"github.com/G-Node/postbox/postbox/relay"
	"github.com/G-Node/postbox/postbox/web"
	"github.com/G-Node/postbox/postbox/worker"
	"go.uber.org/zap"
)

// Service represents a full contact service which contains a web server, the
// mounted contact views, the relay client, and, when a database path is
// configured, an attempt log with its recorder.
type Service struct {
	web    *web.Server
	mu     sync.RWMutex // guards relay
	relay  contact.Poster
	views  *viewStore
	db     *db.Connection
	worker *worker.Worker
	log    *zap.Logger
	Config Config
}

// NewService creates a new Service for the given configuration.  A nil logger
// disables logging.
func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := new(Service)
	srv.Config = cfg
	srv.log = logger

	client, err := relay.New(cfg.RelayURL, relay.WithTimeout(cfg.RelayTimeout))
	if err != nil {
		return nil, err
	}
	srv.relay = client
	srv.views = newViewStore(cfg.ViewTTL, cfg.MaxViews)

	if cfg.DBPath != "" {
		srv.log.Info("Initialising database", zap.String("path", cfg.DBPath))
		conn, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open attempt log: %w", err)
		}
		srv.db = conn
		srv.worker = worker.New(conn, cfg.QueueLength, logger.Named("worker"))
	}

	srv.web = web.New(cfg.Port, logger.Named("web"))
	srv.setupWebRoutes()
	return srv, nil
}

// SetPoster overrides the relay client used by views mounted afterwards.
func (srv *Service) SetPoster(p contact.Poster) {
	srv.mu.Lock()
	srv.relay = p
	srv.mu.Unlock()
}

func (srv *Service) poster() contact.Poster {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return srv.relay
}

// SetLogger can be used to set or override the logger for the service.
func (srv *Service) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv.log = logger
}

// newController builds the controller of a freshly mounted view.
func (srv *Service) newController(viewID string) *contact.Controller {
	opts := []contact.Option{
		contact.WithLogger(srv.log.With(zap.String("view", viewID))),
		contact.WithSilentFailures(srv.Config.SilentFailures),
		contact.WithAllowReentrant(srv.Config.AllowReentrant),
	}
	if srv.worker != nil {
		opts = append(opts, contact.WithObserver(func(a contact.Attempt) {
			srv.record(viewID, a)
		}))
	}
	return contact.New(srv.poster(), opts...)
}

// record queues an attempt for the attempt log.
func (srv *Service) record(viewID string, a contact.Attempt) {
	rec := &db.Attempt{
		ViewID:    viewID,
		StartTime: a.Start,
		EndTime:   a.End,
		Outcome:   a.Outcome.String(),
		Status:    a.Status,
	}
	if a.Err != nil {
		rec.Error = a.Err.Error()
	}
	srv.worker.Enqueue(rec)
}

// Start the service (worker and web server).
func (srv *Service) Start() error {
	if srv.poster() == nil {
		return ErrNoRelay
	}

	if srv.worker != nil {
		srv.log.Info("Starting worker")
		srv.worker.Start()
		srv.log.Info("Worker started")
	}

	srv.log.Info("Starting web service", zap.String("addr", srv.web.Addr))
	srv.web.Start()
	srv.log.Info("Web server started")
	return nil
}

// WaitForInterrupt blocks until the service receives an interrupt or
// termination signal.
func (srv *Service) WaitForInterrupt() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigchan)
	<-sigchan
}

// Stop the service by gracefully shutting down the web service, stopping the
// worker, and closing the database connection, in that order.
func (srv *Service) Stop() {
	srv.log.Info("Stopping web service")
	srv.web.Stop()

	if srv.worker != nil {
		srv.log.Info("Stopping worker queue")
		srv.worker.Stop()
	}

	if srv.db != nil {
		srv.log.Info("Closing database connection")
		if err := srv.db.Close(); err != nil {
			srv.log.Error("Error closing database", zap.Error(err))
		}
	}
	srv.log.Info("Service stopped")
}
