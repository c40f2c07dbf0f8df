package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
	"transit-pathset-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMsg struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent []sentMsg
	err  error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.sent = append(c.sent, sentMsg{subject, data})
	return c.err
}

type countingMetrics struct {
	published, errs, observed int
}

func (m *countingMetrics) NATSPublishedInc()            { m.published++ }
func (m *countingMetrics) NATSPublishErrInc()           { m.errs++ }
func (m *countingMetrics) PublishObserve(time.Duration) { m.observed++ }
func (m *countingMetrics) NATSSetConnected(bool)        {}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func summary() ports.PathSetSummary {
	return ports.PathSetSummary{
		PathID:    42,
		Iteration: 2,
		Outbound:  true,
		Chosen:    "MAIN,CENTRAL_E A,B CENTRAL,HARBOR",
		Paths: []ports.PathSummary{
			{Compact: "MAIN,CENTRAL_E A,B CENTRAL,HARBOR", Cost: 93.95, Probability: 1, Count: 3},
		},
	}
}

func TestPublishSendsJSON(t *testing.T) {
	conn := &fakeConn{}
	m := &countingMetrics{}
	p := newPublisher(conn, "pathsets", quietLogger, m)

	require.NoError(t, p.Publish(context.Background(), summary()))
	require.Len(t, conn.sent, 1)
	assert.Equal(t, "pathsets.42", conn.sent[0].subject)

	var got ports.PathSetSummary
	require.NoError(t, json.Unmarshal(conn.sent[0].data, &got))
	assert.Equal(t, summary(), got)
	assert.Equal(t, 1, m.published)
	assert.Equal(t, 1, m.observed)
}

func TestPublishReportsErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("connection closed")}
	m := &countingMetrics{}
	p := newPublisher(conn, "pathsets", quietLogger, m)

	err := p.Publish(context.Background(), summary())
	assert.ErrorContains(t, err, "publish path set 42: connection closed")
	assert.Equal(t, 1, m.errs)
	assert.Zero(t, m.published)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, summary()), context.Canceled)
	assert.Len(t, conn.sent, 1)
}

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "_", subjectToken("  "))
	assert.Equal(t, "city_a_paths", subjectToken("city.a paths"))
	assert.Equal(t, "a__", subjectToken("a>*"))

	p := newPublisher(&fakeConn{}, "runs.v1", quietLogger, nil)
	assert.Equal(t, "runs_v1.7", p.Subject(7))
}
