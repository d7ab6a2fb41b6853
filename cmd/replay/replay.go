package replay

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"rollbarreporter/src/app"
	"rollbarreporter/src/outbox"
)

type Replay struct {
	Reporter *app.Reporter
	Limit    int
}

func (t *Replay) Start() error {
	if t.Reporter.Outbox == nil {
		return errors.New("outbox disabled, set OUTBOX_DSN")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	res, err := outbox.Replay(ctx, t.Reporter.Outbox, t.Reporter.Client, t.Limit)
	if err != nil {
		logrus.WithError(err).Error("Failed to replay outbox")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"delivered": res.Delivered,
		"failed":    res.Failed,
		"dropped":   res.Dropped,
	}).Info("Replay done")
	return nil
}
