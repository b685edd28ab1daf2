package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceConfig_SetDefaults(t *testing.T) {
	c := TraceConfig{SampleRatio: 5}
	c.SetDefaults()

	assert.Equal(t, "lunabeam", c.ServiceName)
	assert.Equal(t, ExporterNone, c.ExporterType)
	assert.Equal(t, 1.0, c.SampleRatio)
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(TraceConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestInit_UnsupportedExporter(t *testing.T) {
	_, err := Init(TraceConfig{Enabled: true, ExporterType: "zipkin"})
	assert.Error(t, err)
}
