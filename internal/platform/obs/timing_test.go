package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithRequestID(context.Background(), "r-7")

	func() (err error) {
		defer Time(ctx, logger, "load.network")(&err)
		return errors.New("boom")
	}()

	out := buf.String()
	assert.Contains(t, out, "req_id=r-7")
	assert.Contains(t, out, "op=load.network")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "level=WARN")
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	func() (err error) {
		defer Time(context.Background(), logger, "evaluate")(&err)
		return nil
	}()

	assert.Contains(t, buf.String(), "op=evaluate")
	assert.NotContains(t, buf.String(), "err=")
	assert.Equal(t, "", RequestID(context.Background()))
}
