package tracing

import (
	"fmt"
	"io"

	"github.com/carsmotion/carsmotion/internal/common/config"
	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init wires the global tracer against the configured Jaeger agent and
// returns the closer to flush spans at shutdown. An empty endpoint
// disables tracing: the middleware and the save chains then run against
// the no-op tracer, so local setups need no agent.
func Init(serviceName string, cfg config.JaegerConfig) (io.Closer, error) {
	if cfg.Endpoint == "" {
		opentracing.SetGlobalTracer(opentracing.NoopTracer{})
		return nopCloser{}, nil
	}

	jcfg := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler:     samplerFor(cfg.Sampler),
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.Endpoint,
		},
	}

	tracer, closer, err := jcfg.NewTracer(jaegercfg.Logger(jaeger.NullLogger))
	if err != nil {
		return nil, fmt.Errorf("init jaeger tracer: %w", err)
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}

// samplerFor keeps the all-or-nothing rates cheap (const sampler) and
// uses probabilistic sampling for anything in between.
func samplerFor(rate float64) *jaegercfg.SamplerConfig {
	if rate <= 0 {
		return &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 0}
	}
	if rate >= 1 {
		return &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	}
	return &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: rate}
}
