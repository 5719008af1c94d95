package queue

import "context"

// LocalClient runs the handler in-process on a fresh goroutine. Used for
// single-binary deployments and tests where no broker is configured.
type LocalClient struct {
	Handler func(ctx context.Context, msg Message)
}

// Send hands the message straight to the handler. The handler runs on a
// background context so it survives the upload request ending.
func (c *LocalClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	go c.Handler(context.Background(), msg)
	return nil
}

var _ Client = (*LocalClient)(nil)
