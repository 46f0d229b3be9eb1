package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plant-relay/internal/llm"
	"plant-relay/internal/shared/metrics"
	"plant-relay/internal/shared/telemetry"
)

// DefaultTimeout bounds a single upstream call when none is configured.
const DefaultTimeout = 60 * time.Second

// Service sends one image to the model and normalizes its reply.
type Service struct {
	Generator     llm.Generator
	PromptVersion string
	Timeout       time.Duration
}

// Analyze runs one identification. The upstream call inherits ctx, so a
// client disconnect cancels it. Returned errors are llm.ErrMissingAPIKey, a
// *ParseError, an ErrSchema wrap or an upstream failure.
func (s *Service) Analyze(ctx context.Context, img Image) (Result, error) {
	if s.Generator == nil {
		return Result{}, llm.ErrMissingAPIKey
	}
	version := s.PromptVersion
	if version == "" {
		version = llm.DefaultPromptVersion
	}
	prompt, ok := llm.PromptTemplate(version)
	if !ok {
		return Result{}, fmt.Errorf("unknown prompt version %q", version)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	requestID := requestIDFromContext(ctx)
	metrics.IncAnalysisStarted()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	text, err := s.Generator.Generate(callCtx, prompt, llm.ImageInput{MIMEType: img.MIMEType, Data: img.Data})
	elapsed := time.Since(start)
	metrics.ObserveUpstreamDurationMs(float64(elapsed.Milliseconds()))
	if err != nil {
		metrics.IncAnalysisFailed()
		if !errors.Is(err, llm.ErrMissingAPIKey) {
			telemetry.Error("analysis.upstream_failed", map[string]any{
				"request_id":  requestID,
				"prompt":      version,
				"prompt_hash": llm.PromptHash(prompt),
				"mime_type":   img.MIMEType,
				"bytes":       len(img.Data),
				"duration_ms": elapsed.Milliseconds(),
				"timed_out":   errors.Is(callCtx.Err(), context.DeadlineExceeded),
				"error":       err.Error(),
			})
		}
		return Result{}, err
	}

	res, err := Normalize(text)
	if err != nil {
		metrics.IncAnalysisFailed()
		var perr *ParseError
		if errors.As(err, &perr) {
			telemetry.Error("analysis.parse_failed", map[string]any{
				"request_id": requestID,
				"error":      perr.Err.Error(),
				"raw":        perr.Raw,
			})
		} else {
			telemetry.Error("analysis.schema_invalid", map[string]any{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
		return Result{}, err
	}

	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.complete", map[string]any{
		"request_id":  requestID,
		"code":        res.Code,
		"type_code":   int(res.TypeCode),
		"mime_type":   img.MIMEType,
		"bytes":       len(img.Data),
		"duration_ms": elapsed.Milliseconds(),
	})
	return res, nil
}
