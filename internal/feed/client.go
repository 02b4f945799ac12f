package feed

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// maxReconnectInterval caps the backoff between reconnect attempts.
const maxReconnectInterval = 30 * time.Second

// ClientConfig configures the upstream play-by-play consumer.
type ClientConfig struct {
	// BaseURL is a ws:// or wss:// URL template; "{game_id}" is substituted.
	BaseURL string
	Token   string
	GameID  string
}

// Client consumes an upstream play-by-play WebSocket feed for one game,
// reconnecting with exponential backoff, and buffers recent plays into a
// History.
type Client struct {
	url     string
	gameID  string
	history *History
	dialer  *websocket.Dialer
}

// feedFrame is the envelope of an upstream feed message.
type feedFrame struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Play   Play   `json:"play"`
}

// NewClient creates a feed client writing into the given history.
func NewClient(cfg ClientConfig, history *History) *Client {
	url := strings.Replace(cfg.BaseURL, "{game_id}", cfg.GameID, 1)
	if cfg.Token != "" {
		url += "?token=" + cfg.Token
	}
	return &Client{
		url:     url,
		gameID:  cfg.GameID,
		history: history,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Run connects and consumes the feed until the context is cancelled. Dial
// and read failures trigger a reconnect; the backoff resets after each
// successful connection.
func (c *Client) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = maxReconnectInterval
	bo.MaxElapsedTime = 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			wait := bo.NextBackOff()
			log.Warn().
				Err(err).
				Str("game_id", c.gameID).
				Dur("retry_in", wait).
				Msg("feed connection failed, reconnecting")
			if !sleepCtx(ctx, wait) {
				return ctx.Err()
			}
			continue
		}

		log.Info().Str("game_id", c.gameID).Msg("connected to feed")
		bo.Reset()

		err = c.consume(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := bo.NextBackOff()
		log.Warn().
			Err(err).
			Str("game_id", c.gameID).
			Dur("retry_in", wait).
			Msg("feed connection dropped, reconnecting")
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
}

// consume reads frames until the connection fails, appending matching plays
// to the history. Malformed frames are skipped.
func (c *Client) consume(ctx context.Context, conn *websocket.Conn) error {
	// Unblock the read when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame feedFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Debug().Err(err).Str("game_id", c.gameID).Msg("skipping malformed feed frame")
			continue
		}

		if frame.Type == "play" && frame.GameID == c.gameID {
			c.history.Append(c.gameID, frame.Play)
		}
	}
}

// sleepCtx waits for the duration unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
