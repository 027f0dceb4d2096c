// Package bridge carries configuration messages over NATS.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
	"github.com/tartampluch/go-wv58a/internal/metrics"
)

// Subscriber applies configuration messages published on a NATS subject.
type Subscriber struct {
	URL      string
	Subject  string
	OnConfig func(engine.Message)
	Metrics  metrics.Recorder
}

// NewSubscriber creates a subscriber. An empty subject uses the default one.
func NewSubscriber(url, subject string, onConfig func(engine.Message), rec metrics.Recorder) *Subscriber {
	if subject == "" {
		subject = config.DefaultNATSSubject
	}
	return &Subscriber{URL: url, Subject: subject, OnConfig: onConfig, Metrics: metrics.OrNop(rec)}
}

// Run connects, subscribes and blocks until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	conn, err := connect(s.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub, err := conn.Subscribe(s.Subject, s.handle)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrNATSSubscribe, err)
	}

	slog.Info(config.MsgNATSListening,
		config.LogKeyComponent, config.CompBridge,
		config.LogKeyURL, conn.ConnectedUrlRedacted(),
		config.LogKeySubject, s.Subject,
	)

	<-ctx.Done()

	_ = sub.Unsubscribe()
	if err := conn.Drain(); err != nil {
		slog.Debug(config.MsgNATSClosed, config.LogKeyComponent, config.CompBridge, config.LogKeyError, err)
		return nil
	}
	slog.Info(config.MsgNATSClosed, config.LogKeyComponent, config.CompBridge)
	return nil
}

// handle decodes one message. Requests get an ack or nack reply.
func (s *Subscriber) handle(m *nats.Msg) {
	reply := config.NATSReplyAck
	if err := s.apply(m.Data, m.Header.Get(config.HeaderMessageID)); err != nil {
		reply = config.NATSReplyNack
	}
	if m.Reply != "" {
		_ = m.Respond([]byte(reply))
	}
}

func (s *Subscriber) apply(data []byte, msgID string) error {
	msg, err := engine.DecodeMessage(data)
	if err != nil {
		slog.Warn(config.MsgMessageDropped,
			config.LogKeyComponent, config.CompBridge,
			config.LogKeyTransport, config.TransportNATS,
			config.LogKeyMessageID, msgID,
			config.LogKeyReason, err,
		)
		s.Metrics.IncConfigMessage(config.TransportNATS, config.ResultDropped)
		return err
	}

	if s.OnConfig != nil {
		s.OnConfig(msg)
	}
	s.Metrics.IncConfigMessage(config.TransportNATS, config.ResultApplied)
	return nil
}

// Publisher is the phone side: it sends one message as a NATS request and
// waits for the watch to acknowledge it.
type Publisher struct {
	URL     string
	Subject string
}

// Push implements engine.ConfigPusher.
func (p *Publisher) Push(ctx context.Context, msg engine.Message) error {
	subject := p.Subject
	if subject == "" {
		subject = config.DefaultNATSSubject
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEncodeMessage, err)
	}

	conn, err := connect(p.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	msgID := uuid.NewString()
	log := slog.With(
		config.LogKeyComponent, config.CompPusher,
		config.LogKeySubject, subject,
		config.LogKeyMessageID, msgID,
	)

	out := nats.NewMsg(subject)
	out.Data = data
	out.Header.Set(config.HeaderMessageID, msgID)

	resp, err := conn.RequestMsgWithContext(ctx, out)
	if err != nil {
		log.Warn(config.MsgPushNack, config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrPushNetwork, err)
	}
	if string(resp.Data) != config.NATSReplyAck {
		log.Warn(config.MsgPushNack, config.LogKeyReason, string(resp.Data))
		return fmt.Errorf("%s: %s", config.ErrPushRejected, resp.Data)
	}

	log.Info(config.MsgPushAck)
	return nil
}

func connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(config.AppName),
		nats.Timeout(config.NATSConnectTimeout),
		nats.ReconnectWait(config.NATSReconnectWait),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNATSConnect, err)
	}
	return conn, nil
}
