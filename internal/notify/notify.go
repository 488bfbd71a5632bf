// Package notify delivers workflow notifications (challan issued, FIR filed, verdicts,
// public OTPs) to whatever mails or forwards them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"noise-sentinel/internal/model"
)

// secretAttributes are never written to logs.
var secretAttributes = map[string]bool{"otp": true}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes each notification as JSON on "{prefix}.{kind}".
type NATSPublisher struct {
	conn   publisher
	prefix string
}

func NewNATSPublisher(conn publisher, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "noisesentinel"
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Connect dials NATS with unlimited reconnects.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("noise-sentinel"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return conn, nil
}

func (p *NATSPublisher) Notify(_ context.Context, notification model.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(notification.Kind), data)
}

func (p *NATSPublisher) Subject(kind model.NotificationKind) string {
	return p.prefix + "." + string(kind)
}

// LogNotifier only logs. It is used when no broker is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, notification model.Notification) error {
	attrs := zerolog.Dict()
	for key, value := range notification.Attributes {
		if secretAttributes[key] {
			value = "[redacted]"
		}
		attrs = attrs.Str(key, value)
	}
	n.log.Info().
		Str("kind", string(notification.Kind)).
		Str("recipient", notification.Recipient).
		Str("subject", notification.Subject).
		Dict("attributes", attrs).
		Msg("notification")
	return nil
}
