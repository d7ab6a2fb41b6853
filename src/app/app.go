package app

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/config"
	"rollbarreporter/src/database"
	"rollbarreporter/src/outbox"
	"rollbarreporter/src/repository"
	"rollbarreporter/src/rollbar"
)

// Reporter bundles the client with the delivery configured for this
// process.
type Reporter struct {
	Config   config.Config
	Client   *rollbar.Client
	Strategy rollbar.SendStrategy
	Outbox   *repository.UndeliveredReportRepository
}

// Setup configures logging and builds the client from cfg. When an outbox
// database is configured, reports that cannot be delivered are kept there.
func Setup(cfg config.Config) (*Reporter, error) {
	config.SetupLogger(cfg)

	r := &Reporter{
		Config: cfg,
		Client: rollbar.NewFromConfig(cfg),
	}

	enabled, err := database.InitOutboxDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up outbox: %w", err)
	}
	if enabled {
		r.Outbox = repository.NewUndeliveredReportRepository()
		r.Strategy = outbox.Strategy(r.Outbox, r.Client)
	}

	logger.WithFields(logger.Fields{
		"environment": cfg.Environment,
		"endpoint":    r.Client.Endpoint(),
		"outbox":      enabled,
	}).Debug("Rollbar reporter ready")
	return r, nil
}

// BuildReport starts a report that uses the process delivery.
func (r *Reporter) BuildReport() *rollbar.ReportBuilder {
	rb := r.Client.BuildReport()
	if r.Strategy != nil {
		rb.WithSendStrategy(r.Strategy)
	}
	return rb
}

// PanicOptions returns the options installing this reporter as panic
// handler needs. Options passed in win over the configured ones.
func (r *Reporter) PanicOptions(opts ...rollbar.PanicOption) []rollbar.PanicOption {
	base := []rollbar.PanicOption{rollbar.WithPanicLevel(r.Config.PanicLevel)}
	if r.Strategy != nil {
		base = append(base, rollbar.WithPanicSendStrategy(r.Strategy))
	}
	return append(base, opts...)
}
