package worker

import (
	"context"
	"errors"

	"github.com/newswire/apiserver/internal/events"
)

// ApprovalConsumer subscribes to the approval channel and feeds each
// event through the side-effect dispatcher.
type ApprovalConsumer struct {
	Bus     *events.Bus
	Effects *SideEffects
}

func (c *ApprovalConsumer) Start(ctx context.Context) error {
	err := c.Bus.SubscribeApprovals(ctx, c.Effects.Handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
