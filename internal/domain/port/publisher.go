package port

import (
	"context"

	"finstatements.com/internal/domain/entity"
)

// EventPublisher is the port for outbound domain events
type EventPublisher interface {
	Publish(ctx context.Context, event entity.StatementCreated) error
}
