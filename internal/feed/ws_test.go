package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rustyeddy/timedorder/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLog struct{}

func (quietLog) Printf(string, ...any) {}

func TestClientDecodesTicks(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		msgs := []string{
			`{"instrument":"EUR_USD","bid":1.0850,"ask":1.0852,"time":"2026-08-31T12:00:00Z"}`,
			`not json`,
			`{"instrument":"","bid":1,"ask":1}`,
			`{"instrument":"EUR_USD","bid":1.0851,"ask":1.0853,"time":"2026-08-31T12:00:01Z"}`,
		}
		for _, m := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	var mu sync.Mutex
	var quotes []market.Quote
	handler := func(q market.Quote) {
		mu.Lock()
		defer mu.Unlock()
		quotes = append(quotes, q)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c := NewClient(url, handler, quietLog{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(quotes) == 2
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1.0852, quotes[0].Ask)
	assert.Equal(t, 1.0853, quotes[1].Ask)
	assert.Equal(t, time.Date(2026, 8, 31, 12, 0, 1, 0, time.UTC), quotes[1].Time.UTC())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	// Nothing listens here; Run should keep retrying until cancelled.
	c := NewClient("ws://127.0.0.1:1/feed", func(market.Quote) {}, quietLog{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
