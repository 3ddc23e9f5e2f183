package worker

import (
	"sync"

	"github.com/G-Node/postbox/postbox/db"
	"go.uber.org/zap"
)

// Worker with queue for writing Attempt records asynchronously, so that a
// slow database never delays a submission response.
type Worker struct {
	queue   chan *db.Attempt
	stop    chan struct{}
	done    chan struct{}
	mu      sync.RWMutex // guards stopped
	stopped bool
	db      *db.Connection
	log     *zap.Logger
}

// New returns a Worker writing to dbconn with a queue of the given length.
func New(dbconn *db.Connection, queueLen int, logger *zap.Logger) *Worker {
	if queueLen <= 0 {
		queueLen = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := new(Worker)
	w.queue = make(chan *db.Attempt, queueLen)
	w.stop = make(chan struct{})
	w.db = dbconn
	w.log = logger
	return w
}

// Enqueue adds the record to the queue.  It never blocks: when the queue is
// full or the worker has been stopped the record is dropped and a warning is
// logged.
func (w *Worker) Enqueue(a *db.Attempt) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		w.log.Warn("Worker stopped; dropping record", zap.String("view", a.ViewID), zap.String("outcome", a.Outcome))
		return false
	}
	select {
	case w.queue <- a:
		return true
	default:
		w.log.Warn("Attempt queue full; dropping record", zap.String("view", a.ViewID), zap.String("outcome", a.Outcome))
		return false
	}
}

func (w *Worker) run(a *db.Attempt) {
	if err := w.db.InsertAttempt(a); err != nil {
		w.log.Error("Error inserting attempt into db", zap.String("view", a.ViewID), zap.Error(err))
		return
	}
	w.log.Debug("Attempt recorded", zap.Int64("id", a.ID), zap.String("view", a.ViewID))
}

// Start the worker loop in a goroutine.
func (w *Worker) Start() {
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		for {
			select {
			case a := <-w.queue:
				w.run(a)
			case <-w.stop:
				w.drain()
				return
			}
		}
	}()
	w.log.Info("Worker started")
}

// drain writes the records still queued at stop time.
func (w *Worker) drain() {
	for {
		select {
		case a := <-w.queue:
			w.run(a)
		default:
			return
		}
	}
}

// Stop the worker after the queued records are written.  Blocks until the loop
// has returned.  Safe to call more than once, and before Start.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.stop)
	}
	w.mu.Unlock()
	if w.done != nil {
		<-w.done
	}
}
