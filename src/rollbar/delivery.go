package rollbar

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/status"
)

// SendStrategy transmits a serialized payload over the shared transport and
// returns the pending outcome. It must not block the caller.
type SendStrategy func(transport *resty.Client, payload string) *Delivery

// Delivery is the eventual outcome of one dispatched report. A nil status
// means the transport never produced a response.
type Delivery struct {
	done   chan struct{}
	status *status.ResponseStatus
}

// Go runs send in the background and returns its pending outcome. A panic
// inside send is logged and resolves the outcome without a status.
func Go(send func() *status.ResponseStatus) *Delivery {
	d := &Delivery{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				logger.WithError(fmt.Errorf("%+v", r)).Error("Report delivery panicked")
			}
		}()
		d.status = send()
	}()
	return d
}

// Resolved returns an outcome that is already available.
func Resolved(s *status.ResponseStatus) *Delivery {
	d := &Delivery{done: make(chan struct{}), status: s}
	close(d.done)
	return d
}

// Done is closed once the outcome is available.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Status blocks until the delivery finished.
func (d *Delivery) Status() *status.ResponseStatus {
	<-d.done
	return d.status
}

// Wait is Status bounded by ctx. The dispatch keeps running in the
// background when ctx ends first.
func (d *Delivery) Wait(ctx context.Context) (*status.ResponseStatus, error) {
	select {
	case <-d.done:
		return d.status, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
