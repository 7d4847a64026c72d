package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ozires/site24h-backend/internal/config"
)

type stubExporter struct{}

func (stubExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (stubExporter) Shutdown(context.Context) error                             { return nil }

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	prevNew := newExporter
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
		newExporter = prevNew
	})
}

func TestSetupOTel_DisabledIsNoOp(t *testing.T) {
	restoreGlobals(t)

	prevTP := otel.GetTracerProvider()
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("disabled setup replaced the tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_InstallsProviderAndPropagators(t *testing.T) {
	restoreGlobals(t)
	newExporter = func(ctx context.Context, cfg config.OTELConfig) (sdktrace.SpanExporter, error) {
		return stubExporter{}, nil
	}

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Endpoint:    "collector:4317",
		Insecure:    true,
		ServiceName: "site24h-backend",
		SampleRatio: 0.5,
	}, "v1.2.3")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider = %T", otel.GetTracerProvider())
	}

	// Trace context survives an inject/extract round trip.
	ctx, span := otel.Tracer("t").Start(context.Background(), "op")
	span.End()
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		t.Fatal("propagator injected nothing")
	}

	tctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := shutdown(tctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupOTel_ExporterErrorLeavesGlobalsAlone(t *testing.T) {
	restoreGlobals(t)
	newExporter = func(ctx context.Context, cfg config.OTELConfig) (sdktrace.SpanExporter, error) {
		return nil, errors.New("dial failed")
	}

	prevTP := otel.GetTracerProvider()
	if _, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true}, "v0"); err == nil {
		t.Fatal("expected exporter error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("tracer provider changed on failure")
	}
}
