package outbox

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/model"
	"rollbarreporter/src/rollbar"
	"rollbarreporter/src/status"
)

const noResponse = "no response from the items endpoint"

// Store is where undelivered reports wait.
type Store interface {
	Create(ctx context.Context, report *model.UndeliveredReport) error
	ListPending(ctx context.Context, limit int) ([]model.UndeliveredReport, error)
	MarkAttempt(ctx context.Context, id, lastError string, statusCode int) error
	Delete(ctx context.Context, id string) error
}

// Strategy delivers through the client's endpoint like the default send
// and keeps the payload in store when the transport failed or the service
// asked for a retry.
func Strategy(store Store, client *rollbar.Client) rollbar.SendStrategy {
	return func(transport *resty.Client, payload string) *rollbar.Delivery {
		return rollbar.Go(func() *status.ResponseStatus {
			st := client.Post(transport, payload)
			if !shouldKeep(st) {
				return st
			}

			report := &model.UndeliveredReport{Payload: payload, LastError: noResponse}
			if st != nil {
				report.StatusCode = st.Code()
				report.LastError = st.String()
			}
			if err := store.Create(context.Background(), report); err != nil {
				logger.WithError(err).WithField("payload", payload).Error("Failed to keep undelivered report")
			}
			return st
		})
	}
}

func shouldKeep(st *status.ResponseStatus) bool {
	return st == nil || st.IsRetryable()
}

// Result summarises one Replay run.
type Result struct {
	Delivered int
	Failed    int
	Dropped   int
}

// Replay sends up to limit stored reports again. Accepted ones are removed,
// ones the service rejects for good are dropped, the rest stay for the next
// run.
func Replay(ctx context.Context, store Store, client *rollbar.Client, limit int) (Result, error) {
	var res Result

	pending, err := store.ListPending(ctx, limit)
	if err != nil {
		return res, fmt.Errorf("failed to list undelivered reports: %w", err)
	}

	for _, report := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		st := client.Post(client.Transport(), report.Payload)
		log := logger.WithField("report_id", report.ID)

		switch {
		case st != nil && st.IsSuccess():
			res.Delivered++
			if err := store.Delete(ctx, report.ID); err != nil {
				return res, fmt.Errorf("failed to delete delivered report %s: %w", report.ID, err)
			}
		case shouldKeep(st):
			res.Failed++
			lastError, code := noResponse, 0
			if st != nil {
				lastError, code = st.String(), st.Code()
			}
			if err := store.MarkAttempt(ctx, report.ID, lastError, code); err != nil {
				return res, fmt.Errorf("failed to record attempt for report %s: %w", report.ID, err)
			}
		default:
			res.Dropped++
			log.WithField("status", st.Code()).Warn("Dropping report rejected by the items endpoint")
			if err := store.Delete(ctx, report.ID); err != nil {
				return res, fmt.Errorf("failed to delete rejected report %s: %w", report.ID, err)
			}
		}
	}

	logger.WithFields(logger.Fields{
		"delivered": res.Delivered,
		"failed":    res.Failed,
		"dropped":   res.Dropped,
	}).Info("Outbox replay finished")
	return res, nil
}
