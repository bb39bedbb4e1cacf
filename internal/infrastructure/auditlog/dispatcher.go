// Package auditlog persists audit entries off the request path.
package auditlog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
	"github.com/iho/gosettle/internal/usecase"
)

const (
	defaultBufferSize   = 1024
	defaultWriteTimeout = 5 * time.Second
)

// Dispatcher implements usecase.AuditRecorder. Entries are queued on a
// buffered channel and written by a single background goroutine; Record
// never blocks and never reports failure to the caller.
type Dispatcher struct {
	repo         usecase.AuditRepository
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	writeTimeout time.Duration

	queue  chan *domain.AuditLog
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// Config configures a Dispatcher.
type Config struct {
	Repo         usecase.AuditRepository
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	BufferSize   int
	WriteTimeout time.Duration
}

// NewDispatcher creates a dispatcher and starts its writer goroutine.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	d := &Dispatcher{
		repo:         cfg.Repo,
		logger:       cfg.Logger.With().Str("component", "audit").Logger(),
		metrics:      cfg.Metrics,
		writeTimeout: cfg.WriteTimeout,
		queue:        make(chan *domain.AuditLog, cfg.BufferSize),
		done:         make(chan struct{}),
	}

	go d.run()

	return d
}

// Record queues log for persistence. Entries are dropped, with an error
// log, when the buffer is full or the dispatcher is closed.
func (d *Dispatcher) Record(_ context.Context, log *domain.AuditLog) {
	if log == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(log, "dispatcher closed")
		return
	}

	select {
	case d.queue <- log:
	default:
		d.drop(log, "buffer full")
	}
}

// Close stops accepting entries and waits for queued ones to be written,
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for log := range d.queue {
		d.write(log)
	}
}

func (d *Dispatcher) write(log *domain.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()

	if err := d.repo.Create(ctx, log); err != nil {
		d.observe(log, "failure")
		d.logger.Error().
			Err(err).
			Str("action", string(log.Action)).
			Str("entity_type", log.EntityType).
			Str("entity_id", log.EntityID).
			Str("actor_id", log.ActorID).
			Msg("failed to write audit log")
		return
	}

	d.observe(log, "success")
}

func (d *Dispatcher) drop(log *domain.AuditLog, reason string) {
	if d.metrics != nil {
		d.metrics.AuditLogsDropped.Inc()
	}

	d.logger.Error().
		Str("reason", reason).
		Str("action", string(log.Action)).
		Str("entity_type", log.EntityType).
		Str("entity_id", log.EntityID).
		Msg("audit log dropped")
}

func (d *Dispatcher) observe(log *domain.AuditLog, status string) {
	if d.metrics != nil {
		d.metrics.AuditLogsRecorded.WithLabelValues(string(log.Action), status).Inc()
	}
}
