package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabledIsNoop(t *testing.T) {
	tp, err := InitTracer(context.Background(), Config{Enabled: false, ServiceName: "foodgram"})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, Shutdown(context.Background(), tp))
}
