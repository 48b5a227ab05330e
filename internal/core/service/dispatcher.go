package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

const publishTimeout = 5 * time.Second

// EventDispatcher hands committed order events to a pool of workers that
// publish them. A full queue drops the event; the order itself is already
// persisted.
type EventDispatcher struct {
	publisher port.EventPublisher
	queue     chan domain.OrderEvent
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewEventDispatcher(publisher port.EventPublisher, queueSize int, m *metrics.Metrics, logger *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		publisher: publisher,
		queue:     make(chan domain.OrderEvent, queueSize),
		metrics:   m,
		logger:    logging.OrNop(logger).Named("events"),
	}
}

func (d *EventDispatcher) Start(workers int) {
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.workerLoop(id)
		}(i)
	}
	d.logger.Info("started event workers", zap.Int("workers", workers))
}

// Dispatch enqueues event without blocking and reports whether it was queued.
func (d *EventDispatcher) Dispatch(event domain.OrderEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.EventDropped()
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.metrics.EventDropped()
		d.logger.Warn("event queue full, dropping event",
			zap.String("order_id", event.OrderID),
			zap.String("type", string(event.Type)),
		)
		return false
	}
}

// Close stops accepting events and waits for queued ones to be published.
func (d *EventDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("event workers stopped")
}

func (d *EventDispatcher) workerLoop(id int) {
	for event := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)

		if err := d.publisher.Publish(ctx, event); err != nil {
			d.metrics.EventDropped()
			d.logger.Error("failed to publish event",
				zap.Int("worker", id),
				zap.String("order_id", event.OrderID),
				zap.String("type", string(event.Type)),
				zap.Error(err),
			)
		} else {
			d.logger.Debug("published event",
				zap.Int("worker", id),
				zap.String("order_id", event.OrderID),
				zap.String("type", string(event.Type)),
			)
		}

		cancel()
	}
}
