package natsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Publisher struct {
	nc     *nats.Conn
	prefix string
}

// NewPublisher connects to url. Subjects passed to Publish are prefixed with
// prefix and a dot.
func NewPublisher(url, prefix string, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("equipment-portal"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return &Publisher{nc: nc, prefix: prefix}, nil
}

func (p *Publisher) Subject(parts ...string) string {
	subject := p.prefix
	for _, part := range parts {
		if subject != "" {
			subject += "."
		}
		subject += part
	}
	return subject
}

func (p *Publisher) Publish(ctx context.Context, subject string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.nc == nil || p.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	return p.nc.Publish(p.Subject(subject), payload)
}

func (p *Publisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}
