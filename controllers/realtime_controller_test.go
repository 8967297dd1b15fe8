package controllers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A client connected to /ws sees a mark created through the HTTP API,
// delivered via the hub the realtime controller registers it with.
func TestMarksWSDeliversHubEvents(t *testing.T) {
	ts := newTestServer(t, false)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for ts.hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, ts.hub.ClientCount())

	ts.hub.MarkExpired("some-mark-id")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(msg, &frame))
	assert.Equal(t, "mark.expired", frame["kind"])
	assert.Equal(t, "some-mark-id", frame["id"])
}
