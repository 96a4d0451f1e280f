package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_TRACES_SAMPLER", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "")

	s := SettingsFromEnv()
	assert.False(t, s.Disabled)
	assert.Equal(t, DefaultServiceName, s.ServiceName)
	assert.Equal(t, "grpc", s.Protocol)
	assert.Equal(t, "collector:4317", s.Endpoint)
	assert.Equal(t, "parentbased_traceidratio", s.Sampler)
	assert.Equal(t, "1.0", s.SamplerArg)

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "traces:4318")
	assert.Equal(t, "traces:4318", SettingsFromEnv().Endpoint)
}

func TestSampler(t *testing.T) {
	cases := []struct {
		name, arg, want string
	}{
		{"always_on", "", "AlwaysOnSampler"},
		{"always_off", "", "AlwaysOffSampler"},
		{"traceidratio", "0.25", "TraceIDRatioBased{0.25}"},
		{"traceidratio", "nope", "AlwaysOnSampler"},
		{"parentbased_always_off", "", "ParentBased{root:AlwaysOffSampler"},
		{"unknown", "", "ParentBased{root:AlwaysOnSampler"},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/"+tc.arg, func(t *testing.T) {
			assert.Contains(t, Sampler(tc.name, tc.arg).Description(), tc.want)
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		shutdown, err := Init(context.Background(), Settings{Disabled: true}, zap.New(core))
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))

		entries := logs.FilterMessage("tracing_configured").All()
		require.Len(t, entries, 1)
		assert.Equal(t, false, entries[0].ContextMap()["tracing_enabled"])
	})

	t.Run("unsupported protocol degrades", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		shutdown, err := Init(context.Background(), Settings{ServiceName: "test", Protocol: "carrier-pigeon"}, zap.New(core))
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
		assert.Equal(t, 1, logs.FilterMessage("tracing_init_failed").Len())
	})
}
