package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunscan-sec/sunscan/internal/adapters/web/middleware"
	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// dialHub connects a client to the hub behind a stub auth context.
func dialHub(t *testing.T, hub *Hub) *gws.Conn {
	t.Helper()

	user := &domain.User{ID: 1, Username: "operator", Role: domain.RoleOperator}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserContextKey, user)
		hub.HandleWebSocket(w, r.WithContext(ctx))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The hub registers the connection after the upgrade returns.
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)
	return conn
}

func TestHubBroadcastsScanEvents(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	scan := &domain.Scan{ID: 7, Name: "roof array", Status: domain.ScanStatusRunning}
	hub.ScanEvent(ports.ScanEvent{Type: "scan_status", Scan: scan, ID: scan.ID})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "scan_status", msg.Type)
	assert.Contains(t, string(data), `"roof array"`)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	conn.Close()
	hub.ScanEvent(ports.ScanEvent{Type: "scan_deleted", ID: 3})

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)
}
