package web

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gym-dashboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextAuthEvent returns the data line of the next "auth" event, skipping heartbeats.
func nextAuthEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	event := ""
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && event == "auth":
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func openEvents(t *testing.T, srv *httptest.Server, token string) *http.Response {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return resp
}

func TestEvents_SignOutElsewhereEndsStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	resp := openEvents(t, srv, "tok")
	body := bufio.NewReader(resp.Body)
	assert.JSONEq(t, `{"state":"authenticated"}`, nextAuthEvent(t, body))

	require.Eventually(t, func() bool { return env.client.subscribers() == 1 }, time.Second, 5*time.Millisecond)
	env.client.fire(auth.ChangeEvent{Kind: auth.EventSignedOut})

	assert.JSONEq(t, `{"state":"unauthenticated"}`, nextAuthEvent(t, body))
	_, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return env.client.subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEvents_NoSession(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	resp := openEvents(t, srv, "")
	body := bufio.NewReader(resp.Body)
	assert.JSONEq(t, `{"state":"unauthenticated"}`, nextAuthEvent(t, body))
}

func TestEvents_ShutdownEndsOpenStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewUnstartedServer(env.handler)
	srv.Config.RegisterOnShutdown(func() { close(env.draining) })
	srv.Start()
	defer srv.Close()

	resp := openEvents(t, srv, "tok")
	body := bufio.NewReader(resp.Body)
	assert.JSONEq(t, `{"state":"authenticated"}`, nextAuthEvent(t, body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Config.Shutdown(ctx))

	_, err := io.ReadAll(body)
	require.NoError(t, err)
}
