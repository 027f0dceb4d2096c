package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tartampluch/go-wv58a/internal/config"
)

// ConfigPusher delivers a configuration message to a running watch face.
// It is the phone side of the settings flow.
type ConfigPusher interface {
	Push(ctx context.Context, msg Message) error
}

// HTTPPusher implements ConfigPusher by POSTing JSON to the watch's /config route.
type HTTPPusher struct {
	Client  *http.Client
	BaseURL string
	Token   string
}

// NewHTTPPusher creates a pusher with configured timeouts.
func NewHTTPPusher(baseURL, token string) *HTTPPusher {
	return &HTTPPusher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		BaseURL: baseURL,
		Token:   token,
	}
}

// Push sends msg and logs the acknowledgement. Any non-2xx status is a nack.
func (p *HTTPPusher) Push(ctx context.Context, msg Message) error {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + config.RouteConfig
	u.RawQuery = ""

	msgID := uuid.NewString()
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompPusher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
		slog.String(config.LogKeyMessageID, msgID),
	)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateRequest, err)
	}
	req.Header.Set(config.HeaderContentType, config.MimeJSON)
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderMessageID, msgID)
	if p.Token != "" {
		req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+p.Token)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		log.Warn(config.MsgPushNack, config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrPushNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn(config.MsgPushNack, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return fmt.Errorf("%s: %d %s", config.ErrPushRejected, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	log.Info(config.MsgPushAck)
	return nil
}
