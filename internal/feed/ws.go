// Package feed streams quotes from a websocket source into the run loop.
// Without a feed the run loop polls the venue on each tick; with one, every
// received tick triggers an immediate evaluation.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rustyeddy/timedorder/market"
)

// Handler receives each decoded quote.
type Handler func(q market.Quote)

// Logger is the diagnostics sink. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// tick is the wire format of one quote message.
type tick struct {
	Instrument string    `json:"instrument"`
	Bid        float64   `json:"bid"`
	Ask        float64   `json:"ask"`
	Time       time.Time `json:"time"`
}

// Client maintains a websocket connection to a quote source, decoding each
// message and handing it to the handler. Connection loss triggers a
// reconnect with backoff; Run returns only when the context is done.
type Client struct {
	URL     string
	Handler Handler
	Log     Logger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration
}

func NewClient(url string, h Handler, log Logger) *Client {
	return &Client{
		URL:          url,
		Handler:      h,
		Log:          log,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 20 * time.Second,
	}
}

// Run dials and pumps until ctx is done. Each connection failure is logged
// and retried; the backoff doubles up to 30s and resets on a successful
// connect.
func (c *Client) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.connectAndPump(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Printf("feed disconnected: %v; reconnecting in %s", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (c *Client) connectAndPump(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Printf("feed connected to %s", c.URL)

	done := make(chan struct{})
	defer close(done)
	go c.pingPump(ctx, conn, done)

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))

		var t tick
		if err := json.Unmarshal(message, &t); err != nil {
			c.Log.Printf("feed: bad message: %v", err)
			continue
		}
		if t.Instrument == "" || t.Bid <= 0 || t.Ask <= 0 {
			continue
		}
		c.Handler(market.Quote{
			Instrument: t.Instrument,
			Bid:        t.Bid,
			Ask:        t.Ask,
			Time:       t.Time,
		})
	}
}

// pingPump keeps the connection alive; the dial side closes it on exit.
func (c *Client) pingPump(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(c.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.Close()
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
