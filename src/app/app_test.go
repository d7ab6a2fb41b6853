package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rollbarreporter/src/config"
	"rollbarreporter/src/database"
)

func TestSetupWithoutOutbox(t *testing.T) {
	r, err := Setup(config.Config{AccessToken: "ACCESS_TOKEN", Environment: "ENVIRONMENT", Endpoint: "http://127.0.0.1:1/"})
	require.NoError(t, err)
	require.Nil(t, r.Strategy)
	require.Nil(t, r.Outbox)
	require.Equal(t, "ENVIRONMENT", r.Client.Environment())
	require.Len(t, r.PanicOptions(), 1)
}

func TestSetupWithOutbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	t.Cleanup(func() { database.OutboxDB = nil })

	r, err := Setup(config.Config{
		AccessToken:  "ACCESS_TOKEN",
		Environment:  "ENVIRONMENT",
		Endpoint:     srv.URL,
		OutboxDriver: "sqlite",
		OutboxDSN:    "file:app_test?mode=memory&cache=shared",
		GormLogLevel: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, r.Strategy)
	require.Len(t, r.PanicOptions(), 2)

	st := r.BuildReport().FromMessage("slow down").Send().Status()
	require.Equal(t, 429, st.Code())

	count, err := r.Outbox.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
