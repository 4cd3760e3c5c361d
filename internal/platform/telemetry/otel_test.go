package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_NilIsDisabled(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledInsecure(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	// gRPC exporters dial lazily, so no collector is needed to construct them.
	p, err := New(context.Background(), &Config{
		Enabled:      true,
		Endpoint:     "localhost:4317",
		ServiceName:  "cfyctx",
		Version:      "test",
		Environment:  "test",
		SamplingRate: 1,
		Insecure:     true,
	})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx)
}

func TestNewResource_MatchesSDKSchema(t *testing.T) {
	res, err := newResource(&Config{ServiceName: "cfyctx", Version: "1.2.3", Environment: "prod"})
	require.NoError(t, err)

	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	name, ok := res.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "cfyctx", name.AsString())

	env, ok := res.Set().Value(attribute.Key("deployment.environment.name"))
	require.True(t, ok)
	assert.Equal(t, "prod", env.AsString())
}

func TestStartCommand(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	_, end := StartCommand(context.Background(), "cfyctx show")
	end(nil)

	_, end = StartCommand(context.Background(), "cfyctx get-resource")
	end(errors.New("status 500"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "cfyctx show", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "cfyctx get-resource", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "status 500", spans[1].Status().Description)
}
