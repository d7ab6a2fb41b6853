package rollbar

// Test index:
//  1. TestClientSendPostsPayload posts the raw JSON document to the endpoint.
//  2. TestClientSendRejectedStatus resolves to the service status without failing.
//  3. TestClientSendTransportFailure resolves to no status.
//  4. TestClientRetries retries 5xx answers when configured.
//  5. TestNewFromConfig carries credentials and endpoint from the configuration.
//  6. TestDeliveryWait bounds waiting with a context.
//  7. TestDeliveryRecoversPanic keeps a panicking strategy from crashing the process.
//  8. TestReportShortcuts exercises ReportError, ReportErrorMessage and ReportMessage end to end.

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rollbarreporter/src/config"
	"rollbarreporter/src/status"
)

type recordingServer struct {
	*httptest.Server
	mu     sync.Mutex
	bodies []string
	calls  atomic.Int32
}

func newRecordingServer(t *testing.T, codes ...int) *recordingServer {
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := int(rs.calls.Add(1)) - 1
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.bodies = append(rs.bodies, string(body))
		rs.mu.Unlock()

		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		code := http.StatusOK
		if len(codes) > 0 {
			code = codes[len(codes)-1]
			if call < len(codes) {
				code = codes[call]
			}
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"err":0}`))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) received() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.bodies...)
}

func TestClientSendPostsPayload(t *testing.T) {
	srv := newRecordingServer(t)
	client := New("ACCESS_TOKEN", "ENVIRONMENT", WithEndpoint(srv.URL+"/api/1/item/"))

	st := client.BuildReport().FromMessage("hai").Send().Status()
	require.NotNil(t, st)
	require.True(t, st.IsSuccess())
	require.Equal(t,
		[]string{`{"access_token":"ACCESS_TOKEN","data":{"environment":"ENVIRONMENT","body":{"message":{"body":"hai"}},"level":"info"}}`},
		srv.received())
}

func TestClientSendRejectedStatus(t *testing.T) {
	srv := newRecordingServer(t, http.StatusUnauthorized)
	client := New("", "ENVIRONMENT", WithEndpoint(srv.URL))

	st := client.BuildReport().FromError(errors.New("boom")).Send().Status()
	require.NotNil(t, st)
	require.Equal(t, 401, st.Code())
	require.Equal(t, "No access token was found in the request.", st.Description())

	got := srv.received()
	require.Len(t, got, 1)
	require.Contains(t, got[0], `"access_token":""`)
}

func TestClientSendTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := New("ACCESS_TOKEN", "ENVIRONMENT", WithEndpoint(endpoint), WithTimeout(2*time.Second))
	require.Nil(t, client.Send(`{"access_token":"ACCESS_TOKEN"}`).Status())
}

func TestClientRetries(t *testing.T) {
	srv := newRecordingServer(t, http.StatusInternalServerError, http.StatusOK)
	client := New("ACCESS_TOKEN", "ENVIRONMENT", WithEndpoint(srv.URL), WithRetryCount(2))

	st := client.BuildReport().FromMessage("again").Send().Status()
	require.NotNil(t, st)
	require.Equal(t, 200, st.Code())
	require.Len(t, srv.received(), 2)
	require.Equal(t, srv.received()[0], srv.received()[1])
}

func TestNewFromConfig(t *testing.T) {
	client := NewFromConfig(config.Config{
		AccessToken: "ACCESS_TOKEN",
		Environment: "staging",
		Endpoint:    "http://localhost:9/item/",
	})
	require.Equal(t, "ACCESS_TOKEN", client.AccessToken())
	require.Equal(t, "staging", client.Environment())
	require.Equal(t, "http://localhost:9/item/", client.Endpoint())

	require.Equal(t, config.DefaultEndpoint, New("a", "b").Endpoint())
}

func TestDeliveryWait(t *testing.T) {
	release := make(chan struct{})
	d := Go(func() *status.ResponseStatus {
		<-release
		return status.FromHTTP(200)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	st, err := d.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Nil(t, st)

	close(release)
	st, err = d.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, 200, st.Code())
	<-d.Done()
}

func TestDeliveryRecoversPanic(t *testing.T) {
	d := Go(func() *status.ResponseStatus { panic("strategy bug") })
	require.Nil(t, d.Status())
}

func TestReportShortcuts(t *testing.T) {
	srv := newRecordingServer(t)
	client := New("ACCESS_TOKEN", "ENVIRONMENT", WithEndpoint(srv.URL))

	require.Equal(t, 200, ReportError(client, errors.New("boom")).Status().Code())
	require.Equal(t, 200, ReportErrorMessage(client, "＿|￣|○").Status().Code())
	require.Equal(t, 200, ReportMessage(client, "hai").Status().Code())

	got := srv.received()
	require.Len(t, got, 3)

	errFrames := traceOf(t, got[0])["frames"].([]any)
	last := errFrames[len(errFrames)-1].(map[string]any)
	require.True(t, strings.HasSuffix(last["filename"].(string), "client_test.go"))
	require.Contains(t, last, "lineno")

	msgFrames := traceOf(t, got[1])["frames"].([]any)
	first := msgFrames[0].(map[string]any)
	require.True(t, strings.HasSuffix(first["filename"].(string), "client_test.go"))
	require.Equal(t, "＿|￣|○", traceOf(t, got[1])["exception"].(map[string]any)["message"])

	require.Contains(t, got[2], `"level":"info"`)
}
