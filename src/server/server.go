package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/frame"
	"rollbarreporter/src/level"
	"rollbarreporter/src/rollbar"
)

// Recoverer reports handler panics through client and answers 500. The
// panic does not propagate past the middleware, except http.ErrAbortHandler.
// A nil strategy keeps the client's own delivery.
func Recoverer(client *rollbar.Client, lvl level.Level, strategy rollbar.SendStrategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				event := rollbar.NewPanicEvent(rec)
				rb := client.BuildReport()
				if strategy != nil {
					rb.WithSendStrategy(strategy)
				}
				rb.FromPanic(event).
					WithBacktrace(frame.Capture(1)).
					WithLevel(lvl).
					WithTitle(fmt.Sprintf("%s %s: %s", r.Method, r.URL.Path, event.Message())).
					Send()

				logger.WithError(fmt.Errorf("%+v", rec)).
					WithField("path", r.URL.Path).
					Error("Handler panic reported")
				w.WriteHeader(http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter mounts the reporting middleware and the public routes. Handler
// panics are reported at lvl.
func NewRouter(client *rollbar.Client, strategy rollbar.SendStrategy, lvl level.Level) chi.Router {
	r := chi.NewRouter()
	r.Use(Recoverer(client, lvl, strategy))

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})
	return r
}

func StartServer(port string, handler http.Handler) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
