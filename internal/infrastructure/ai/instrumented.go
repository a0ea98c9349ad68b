package ai

import (
	"context"
	"iter"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

const (
	statusSuccess   = "success"
	statusError     = "error"
	statusThrottled = "throttled"
)

// InstrumentedModel throttles, traces and measures calls to another model
type InstrumentedModel struct {
	next    outbound.LanguageModel
	limiter *rate.Limiter
	metrics *monitoring.MetricsCollector
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewInstrumentedModel wraps next. A nil limiter disables throttling.
func NewInstrumentedModel(
	next outbound.LanguageModel,
	limiter *rate.Limiter,
	metrics *monitoring.MetricsCollector,
	tracer trace.Tracer,
	logger *zap.Logger,
) *InstrumentedModel {
	return &InstrumentedModel{
		next:    next,
		limiter: limiter,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger.Named("ai"),
	}
}

// Name returns the wrapped provider name
func (m *InstrumentedModel) Name() string { return m.next.Name() }

// Generate implements outbound.LanguageModel
func (m *InstrumentedModel) Generate(ctx context.Context, req outbound.GenerateRequest) (*outbound.GenerateResponse, error) {
	ctx, span := m.startSpan(ctx, "ai.generate", req)
	defer span.End()

	if err := m.wait(ctx, req); err != nil {
		m.finish(span, req, time.Now(), err)
		return nil, err
	}

	start := time.Now()
	resp, err := m.next.Generate(ctx, req)
	m.finish(span, req, start, err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("ai.model", resp.Model),
		attribute.Int("ai.citations", len(resp.Citations)),
	)
	return resp, nil
}

// Stream implements outbound.LanguageModel
func (m *InstrumentedModel) Stream(ctx context.Context, req outbound.GenerateRequest) iter.Seq2[outbound.StreamChunk, error] {
	return func(yield func(outbound.StreamChunk, error) bool) {
		ctx, span := m.startSpan(ctx, "ai.stream", req)
		defer span.End()

		if err := m.wait(ctx, req); err != nil {
			m.finish(span, req, time.Now(), err)
			yield(outbound.StreamChunk{}, err)
			return
		}

		start := time.Now()
		chunks := 0
		var streamErr error
		defer func() {
			span.SetAttributes(attribute.Int("ai.chunks", chunks))
			m.finish(span, req, start, streamErr)
		}()

		for chunk, err := range m.next.Stream(ctx, req) {
			if err != nil {
				streamErr = err
				yield(outbound.StreamChunk{}, err)
				return
			}
			chunks++
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// HealthCheck implements outbound.LanguageModel
func (m *InstrumentedModel) HealthCheck(ctx context.Context) error {
	return m.next.HealthCheck(ctx)
}

func (m *InstrumentedModel) startSpan(ctx context.Context, name string, req outbound.GenerateRequest) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("ai.provider", m.next.Name()),
		attribute.String("ai.operation", req.Operation),
		attribute.String("ai.tier", string(req.Tier)),
		attribute.Bool("ai.web_search", req.WebSearch),
		attribute.Bool("ai.structured", req.Schema != nil),
	))
}

// wait blocks on the limiter. A cancelled context is returned as is; any
// other refusal (burst exceeded, wait past the deadline) is TOO_MANY_REQUESTS.
func (m *InstrumentedModel) wait(ctx context.Context, req outbound.GenerateRequest) error {
	if m.limiter == nil {
		return nil
	}
	start := time.Now()
	err := m.limiter.Wait(ctx)
	m.metrics.RecordThrottleWait(time.Since(start))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return errors.NewTooManyRequestsError(req.Operation, err)
}

func (m *InstrumentedModel) finish(span trace.Span, req outbound.GenerateRequest, start time.Time, err error) {
	duration := time.Since(start)
	status := statusSuccess
	if err != nil {
		status = statusError
		if errors.GetCode(err) == errors.CodeTooManyRequests {
			status = statusThrottled
		}
		monitoring.RecordError(span, err)
		m.logger.Warn("AI request failed",
			zap.String("provider", m.next.Name()),
			zap.String("operation", req.Operation),
			zap.Duration("duration", duration),
			zap.Error(err))
	} else {
		m.logger.Debug("AI request completed",
			zap.String("provider", m.next.Name()),
			zap.String("operation", req.Operation),
			zap.Duration("duration", duration))
	}
	m.metrics.RecordAIRequest(m.next.Name(), req.Operation, status, duration)
}
