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

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name       string
		setupCtx   func() context.Context
		wantFields map[string]string
		wantAbsent []string
	}{
		{
			name: "cycle id and source",
			setupCtx: func() context.Context {
				ctx := WithCycleID(context.Background(), "c-1")
				return WithSource(ctx, "apply")
			},
			wantFields: map[string]string{"cycle_id": "c-1", "source": "apply"},
		},
		{
			name: "only cycle id",
			setupCtx: func() context.Context {
				return WithCycleID(context.Background(), "c-2")
			},
			wantFields: map[string]string{"cycle_id": "c-2"},
			wantAbsent: []string{"source"},
		},
		{
			name:       "no context values",
			setupCtx:   context.Background,
			wantAbsent: []string{"cycle_id", "source"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for k, v := range tt.wantFields {
				assert.Equal(t, v, entry[k], k)
			}
			for _, k := range tt.wantAbsent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
