package notehub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const streamPath = notesPath + "/stream"

// Watch streams note changes to fn until ctx is done or the server ends
// the stream. It returns nil on a normal close and ctx.Err() after
// cancellation. fn runs on the calling goroutine.
func (c *Client) Watch(ctx context.Context, fn func(ChangeEvent)) error {
	token := ""
	if c.token != nil {
		token = c.token()
	}
	if token == "" {
		return &ConfigError{Key: "NOTEHUB_TOKEN"}
	}

	endpoint, err := streamURL(c.baseURL)
	if err != nil {
		return fmt.Errorf("notehub watch: %w", err)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.http.Timeout,
	}
	header := http.Header{"Authorization": {"Bearer " + token}}

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
			return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		}
		return &NetworkError{Op: "watch", Err: err}
	}
	defer conn.Close()

	c.log.Info("watching note changes", "url", endpoint)

	// ReadJSON has no context, closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		var ev ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				c.log.Warn("note stream closed by server", "code", closeErr.Code, "text", closeErr.Text)
			}
			return &NetworkError{Op: "watch", Err: err}
		}
		fn(ev)
	}
}

func streamURL(base string) (string, error) {
	u, err := url.Parse(base + streamPath)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}
