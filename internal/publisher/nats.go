package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"transit-pathset-service/internal/ports"

	"github.com/nats-io/nats.go"
)

// msgConn is the part of *nats.Conn the publisher uses.
type msgConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher sends each evaluated path set as JSON to
// "<prefix>.<path_id>". It implements ports.PathSetPublisher.
type NATSPublisher struct {
	nc      *nats.Conn
	conn    msgConn
	prefix  string
	logger  *slog.Logger
	metrics PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, prefix string, logger *slog.Logger, m PublisherMetrics) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("transit-pathset-service"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("new nats publisher: connect %q: %w", url, err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	p := newPublisher(nc, prefix, logger, m)
	p.nc = nc
	return p, nil
}

func newPublisher(conn msgConn, prefix string, logger *slog.Logger, m PublisherMetrics) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: subjectToken(prefix), logger: logger, metrics: m}
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			p.logger.Warn("nats drain failed", "err", err)
		}
		p.nc.Close()
	}
}

// Subject is where the path set of pathID is published.
func (p *NATSPublisher) Subject(pathID int) string {
	return p.prefix + "." + subjectToken(strconv.Itoa(pathID))
}

func (p *NATSPublisher) Publish(ctx context.Context, summary ports.PathSetSummary) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish path set %d: %w", summary.PathID, err)
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("publish path set %d: marshal: %w", summary.PathID, err)
	}

	subject := p.Subject(summary.PathID)
	p.logger.Debug("nats publish", "subject", subject, "bytes", len(b))

	start := time.Now()
	err = p.conn.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	if err != nil {
		return fmt.Errorf("publish path set %d: %w", summary.PathID, err)
	}
	return nil
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
