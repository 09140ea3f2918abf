package events

import (
	"context"
	"time"

	"marinehub.app/configs/configslog"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher fans domain events out to subscribers (websocket gateways, mailers).
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

type natsPublisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS. An empty url yields a no-op publisher so the
// API keeps working without a broker.
func NewPublisher(url string) (Publisher, error) {
	if url == "" {
		configslog.SLog.Info("NATS_URL not set, domain events are disabled.")
		return NopPublisher{}, nil
	}

	conn, err := nats.Connect(url,
		nats.Name("marinehub-api"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	configslog.SLog.Infof("Connected to NATS at %s", conn.ConnectedUrl())
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		configslog.Log.Error("Event could not be published", zap.String("subject", subject), zap.Error(err))
		return err
	}
	configslog.Log.Debug("Event published", zap.String("subject", subject), zap.Int("size", len(data)))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close()                                     {}
