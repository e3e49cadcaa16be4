package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/passcheck/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("counts", slog.Int("accepted", 1), slog.Int("rejected", 2))
	require.Equal(t, "counts", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "accepted", g[0].Key)
	assert.Equal(t, "rejected", g[1].Key)
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestCandidateAttrs(t *testing.T) {
	assert.Equal(t, int64(3), logger.Seq(3).Value.Int64())
	assert.Equal(t, "seq", logger.Seq(3).Key)
	assert.Equal(t, "rejected", logger.Status("rejected").Value.String())
	assert.Equal(t, "digit", logger.Rule("digit").Value.String())
	assert.Equal(t, "reason", logger.Reason("missing digit").Key)
	assert.True(t, logger.Rule("").Equal(slog.Attr{}))
	assert.True(t, logger.Reason("").Equal(slog.Attr{}))
}

func TestMiscAttrs(t *testing.T) {
	assert.Equal(t, "run_id", logger.RunID("x").Key)
	assert.Equal(t, int64(7), logger.Count("total", 7).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "pwned", logger.Component("pwned").Value.String())
}
