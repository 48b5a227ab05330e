package port

import (
	"context"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

type EventPublisher interface {
	// Publish delivers a committed order event to downstream consumers.
	Publish(ctx context.Context, event domain.OrderEvent) error
}
