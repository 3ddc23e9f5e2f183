// Package contact implements the state controller behind a contact form: it
// keeps the field values and their validation errors and drives a single
// submission to a relay endpoint.
package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/G-Node/postbox/postbox/form"
	"github.com/G-Node/postbox/postbox/relay"
	"go.uber.org/zap"
)

// ErrUnknownField is returned by OnFieldChange for a name that is not one of
// the form's fields.
var ErrUnknownField = errors.New("unknown form field")

// Poster delivers a submission and returns the HTTP status of the response.
// A non-nil error means the request failed at the transport level.
type Poster interface {
	Post(ctx context.Context, fields form.FormFields) (int, error)
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(ctx context.Context, fields form.FormFields) (int, error)

// Post calls f.
func (f PosterFunc) Post(ctx context.Context, fields form.FormFields) (int, error) {
	return f(ctx, fields)
}

// Attempt describes one call to the relay.
type Attempt struct {
	Start   time.Time
	End     time.Time
	Outcome Outcome
	Status  int
	Err     error
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Fields     form.FormFields
	Errors     form.FieldErrors
	Submitting bool
	// Submitted is latched by the first successful submission and never
	// cleared.
	Submitted bool
	Outcome   Outcome
	// Status of the last relay response (0 if none).
	Status int
	// Failure holds the transport error text of the last failed attempt.
	Failure string
}

// Controller owns the state of one mounted contact form.  It is safe for
// concurrent use; the lock is never held across the relay call.
type Controller struct {
	mu         sync.Mutex
	fields     form.FormFields
	errors     form.FieldErrors
	submitting bool
	submitted  bool
	outcome    Outcome
	status     int
	failure    string

	poster         Poster
	messages       form.Messages
	silentFailures bool
	allowReentrant bool
	observer       func(Attempt)
	log            *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.  A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l == nil {
			l = zap.NewNop()
		}
		c.log = l
	}
}

// WithMessages overrides the validation messages.
func WithMessages(m form.Messages) Option {
	return func(c *Controller) { c.messages = m }
}

// WithSilentFailures reproduces the behaviour of the original page: a
// transport error is shown as submitted (fields kept) and a rejected
// submission reports nothing beyond the button returning to rest.
func WithSilentFailures(silent bool) Option {
	return func(c *Controller) { c.silentFailures = silent }
}

// WithAllowReentrant lets OnSubmit start a second relay call while one is in
// flight, instead of returning OutcomeBusy.
func WithAllowReentrant(allow bool) Option {
	return func(c *Controller) { c.allowReentrant = allow }
}

// WithObserver registers a function called after every relay call.
func WithObserver(fn func(Attempt)) Option {
	return func(c *Controller) { c.observer = fn }
}

// New returns a Controller with empty fields that submits through poster.
func New(poster Poster, opts ...Option) *Controller {
	c := &Controller{
		poster:   poster,
		messages: form.DefaultMessages(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnFieldChange stores the raw value for the named field and revalidates that
// field only.
func (c *Controller) OnFieldChange(name string, raw string) error {
	f, err := form.ParseField(name)
	if err != nil {
		return ErrUnknownField
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.Set(f, raw)
	c.errors.Set(f, c.messages.ValidateField(f, raw))
	return nil
}

// FieldError returns the current error for the named field.
func (c *Controller) FieldError(name string) (string, error) {
	f, err := form.ParseField(name)
	if err != nil {
		return "", ErrUnknownField
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Get(f), nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Fields:     c.fields,
		Errors:     c.errors,
		Submitting: c.submitting,
		Submitted:  c.submitted,
		Outcome:    c.outcome,
		Status:     c.status,
		Failure:    c.failure,
	}
}

// begin runs full validation and, if the form passes, enters Submitting and
// returns the values to send.
func (c *Controller) begin() (form.FormFields, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting && !c.allowReentrant {
		c.outcome = OutcomeBusy
		return form.FormFields{}, OutcomeBusy
	}
	c.errors = c.messages.ValidateAll(c.fields)
	if !c.errors.Valid() {
		c.outcome = OutcomeInvalid
		return form.FormFields{}, OutcomeInvalid
	}
	c.submitting = true
	return c.fields, OutcomeNone
}

// OnSubmit validates every field and, if they all pass, posts them to the
// relay.  It never returns an error; the result is reported as an Outcome and
// reflected in Snapshot.
func (c *Controller) OnSubmit(ctx context.Context) Outcome {
	values, outcome := c.begin()
	if outcome != OutcomeNone {
		if outcome == OutcomeBusy {
			c.log.Debug("Submission already in flight")
		}
		return outcome
	}
	defer c.finish()

	attempt := Attempt{Start: time.Now()}
	attempt.Status, attempt.Err = c.poster.Post(ctx, values)
	attempt.End = time.Now()

	outcome = c.settle(attempt.Status, attempt.Err)
	attempt.Outcome = outcome
	if attempt.Err != nil {
		c.log.Warn("Relay request failed", zap.Error(attempt.Err), zap.Stringer("outcome", outcome))
	} else {
		c.log.Info("Relay responded", zap.Int("status", attempt.Status), zap.Stringer("outcome", outcome))
	}
	if c.observer != nil {
		c.observer(attempt)
	}
	return outcome
}

// settle applies the result of a relay call.
func (c *Controller) settle(status int, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.failure = ""
	switch {
	case err != nil:
		c.failure = err.Error()
		if c.silentFailures {
			c.submitted = true
			c.outcome = OutcomeSubmitted
		} else {
			c.outcome = OutcomeFailed
		}
	case relay.OK(status):
		c.submitted = true
		c.fields = form.FormFields{}
		c.outcome = OutcomeSubmitted
	default:
		c.outcome = OutcomeRejected
	}
	return c.outcome
}

// finish leaves Submitting whatever happened during the relay call.
func (c *Controller) finish() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}
