package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/pkg/environment"
	"github.com/dmitrymomot/notekit/pkg/logger"
	"github.com/dmitrymomot/notekit/pkg/requestid"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production writes json with static and context attributes", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithEnvironment(environment.Production, "notekit"),
			logger.WithOutput(&buf),
			logger.WithContextExtractors(requestid.LoggerExtractor()),
		)

		ctx := requestid.WithContext(context.Background(), "req-1")
		log.InfoContext(ctx, "hello", logger.Error(errors.New("boom")), logger.Component("test"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "notekit", rec["service"])
		assert.Equal(t, "production", rec["env"])
		assert.Equal(t, "req-1", rec["request_id"])
		assert.Equal(t, "boom", rec["error"])
		assert.Equal(t, "test", rec["component"])
	})

	t.Run("production drops debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment(environment.Production, ""), logger.WithOutput(&buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("development writes text at debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment(environment.Development, "svc"), logger.WithOutput(&buf))
		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "service=svc")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.UserID(nil))
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, "tenant_id", logger.TenantID("t1").Key)
	assert.Equal(t, "note_id", logger.NoteID("n1").Key)
	assert.Equal(t, "pro", logger.Plan("pro").Value.String())
}
