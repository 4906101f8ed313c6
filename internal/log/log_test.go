package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilteringHandler(t *testing.T) {
	t.Cleanup(func() { EnableSections("types", "cli") })
	EnableSections("types")

	var buf bytes.Buffer
	logger := slog.New(NewFilteringHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.With("section", "types.union").Debug("kept")
	logger.Debug("kept too", "section", "types")
	logger.With("section", "parser").Debug("dropped")
	logger.Debug("dropped without section")
	logger.With("section", "parser").Warn("warnings always pass")

	out := buf.String()
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, `msg="kept too"`)
	assert.Contains(t, out, `msg="warnings always pass"`)
	assert.NotContains(t, out, "dropped")
}

func TestFilteringHandlerSections(t *testing.T) {
	t.Cleanup(func() { EnableSections("types", "cli") })

	EnableSections("parser")
	assert.True(t, sectionEnabled("parser"))
	assert.False(t, sectionEnabled("types.declare"))

	EnableSections("types")
	assert.True(t, sectionEnabled("types.declare"))
}
