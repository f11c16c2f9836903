package broker

import (
	"context"

	"pipsite/pkg/models"
)

type Producer interface {
	Publish(ctx context.Context, topic string, event models.Event) error
	Close() error
}
