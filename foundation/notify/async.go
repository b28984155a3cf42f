package notify

import (
	"context"
	"sync"

	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Async hands every message to the wrapped sender on its own goroutine so
// the caller never waits on a provider. The goroutine keeps the values of
// the caller's context but not its cancellation.
type Async struct {
	log    *logger.Logger
	sender Sender
	wg     sync.WaitGroup
}

// NewAsync wraps the sender.
func NewAsync(log *logger.Logger, sender Sender) *Async {
	return &Async{
		log:    log,
		sender: sender,
	}
}

// Send implements the Sender interface.
func (a *Async) Send(ctx context.Context, msg Message) {
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer recoverSend(ctx, a.log, "async")

		a.sender.Send(ctx, msg)
	}()
}

// Wait blocks until every message handed to Send has been processed.
func (a *Async) Wait() {
	a.wg.Wait()
}
