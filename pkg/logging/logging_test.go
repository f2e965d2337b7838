package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", FormatJSON)

	log.Debug().Msg("hidden")
	log.Info().Str("file", "bank.syx").Msg("decoded")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "decoded", event["message"])
	assert.Equal(t, "bank.syx", event["file"])
	assert.Contains(t, event, "time")
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", FormatPretty)
	log.Debug().Int("waves", 256).Msg("listed")

	out := buf.String()
	assert.Contains(t, out, "listed")
	assert.Contains(t, out, "waves=256")
	assert.NotContains(t, out, "\x1b[", "non-terminal writers get no color")
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	var buf bytes.Buffer
	log := FromContext(ctx, New(&buf, "info", FormatJSON))
	log.Info().Msg("request")
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
}
