package logger

import (
	"bytes"
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
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestNamed_AddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Service: "policyrag", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	Named("analyzer").Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "analyzer", line["component"])
	assert.Equal(t, "policyrag", line["service"])
	assert.Equal(t, "hello", line["message"])
}

func TestInit_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Format: "json", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	Get().Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Get().Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
