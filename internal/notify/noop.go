package notify

import (
	"context"

	"github.com/plateful/plateful/internal"
)

// Noop stands in when no broker is configured; transitions still commit,
// nothing is published.
type Noop struct{}

var _ internal.IStatusPublisher = Noop{}

func (Noop) PublishStatusUpdate(ctx context.Context, upd internal.StatusUpdate) error {
	return nil
}
