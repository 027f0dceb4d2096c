package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
	"github.com/tartampluch/go-wv58a/internal/metrics"
)

// cacheItem stores the rendered face and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// ConfigFunc receives every accepted configuration message.
type ConfigFunc func(msg engine.Message)

// WatchServer accepts configuration messages and serves the latest face.
type WatchServer struct {
	// face is written once per second by the tick loop and read by clients,
	// so it is swapped atomically instead of locked.
	face  atomic.Pointer[cacheItem]
	token atomic.Pointer[string]

	Addr     string
	Port     string
	OnConfig ConfigFunc
	Metrics  metrics.Recorder
}

// NewWatchServer creates a server bound to addr:port. An empty addr binds
// to localhost. GET /metrics is served when rec is a metrics.Exporter.
func NewWatchServer(addr, port string, onConfig ConfigFunc, rec metrics.Recorder) *WatchServer {
	if addr == "" {
		addr = config.LocalhostBindAddr
	}
	return &WatchServer{
		Addr:     addr,
		Port:     port,
		OnConfig: onConfig,
		Metrics:  metrics.OrNop(rec),
	}
}

// SetToken sets the bearer token required on POST /config. An empty token
// leaves the route open.
func (s *WatchServer) SetToken(token string) {
	s.token.Store(&token)
}

// Handler returns the routing table.
func (s *WatchServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteConfig, s.handleConfig)
	mux.HandleFunc(config.RouteFace, s.handleFace)
	if exp, ok := s.Metrics.(metrics.Exporter); ok {
		mux.Handle(config.RouteMetrics, exp.Handler())
	}
	return mux
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *WatchServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	addr := s.Addr + config.AddrSeparator + s.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// UpdateFace atomically replaces the served PNG. Identical frames keep their
// ETag and Last-Modified.
func (s *WatchServer) UpdateFace(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	if cur := s.face.Load(); cur != nil && cur.etag == etag {
		return
	}

	s.face.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgFaceUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleConfig decodes a configuration message and hands it to OnConfig.
func (s *WatchServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set(config.HeaderAllow, config.AllowedPost)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	log := slog.With(
		config.LogKeyComponent, config.CompServer,
		config.LogKeyTransport, config.TransportHTTP,
		config.LogKeyMessageID, r.Header.Get(config.HeaderMessageID),
	)

	if !s.authorized(r) {
		log.Warn(config.ErrUnauthorized)
		s.Metrics.IncConfigMessage(config.TransportHTTP, config.ResultRejected)
		http.Error(w, config.HTTPMsgUnauthorized, http.StatusUnauthorized)
		return
	}

	msg, err := decodeRequest(w, r)
	if err != nil {
		log.Warn(config.MsgMessageDropped, config.LogKeyReason, err)
		s.Metrics.IncConfigMessage(config.TransportHTTP, config.ResultDropped)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	if s.OnConfig != nil {
		s.OnConfig(msg)
	}
	s.Metrics.IncConfigMessage(config.TransportHTTP, config.ResultApplied)
	w.WriteHeader(http.StatusNoContent)
}

func (s *WatchServer) authorized(r *http.Request) bool {
	want := s.token.Load()
	if want == nil || *want == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get(config.HeaderAuthorization), config.BearerPrefix)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(*want)) == 1
}

// decodeRequest accepts either a form body or a JSON object.
func decodeRequest(w http.ResponseWriter, r *http.Request) (engine.Message, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxConfigBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(config.HeaderContentType))
	if mediaType == config.MimeForm {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDecodeMessage, err)
		}
		msg := make(engine.Message, len(r.PostForm))
		for k := range r.PostForm {
			msg[k] = r.PostForm.Get(k)
		}
		return msg, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDecodeMessage, err)
	}
	return engine.DecodeMessage(body)
}

// handleFace serves the latest PNG with HTTP caching support.
func (s *WatchServer) handleFace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedGet)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.face.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimePNG)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
