package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"plant-relay/internal/llm"
	"plant-relay/internal/shared/metrics"
)

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, prompt string, image llm.ImageInput) (string, error) {
	_ = prompt
	_ = image
	<-ctx.Done()
	return "", ctx.Err()
}

func TestServiceAppliesTimeout(t *testing.T) {
	quietLogs(t)
	gen := &fakeGenerator{reply: successReply}
	svc := &Service{Generator: gen, Timeout: 5 * time.Second}

	before := time.Now()
	if _, err := svc.Analyze(context.Background(), Image{MIMEType: mimePNG, Data: pngHeader}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	deadline, ok := gen.ctx.Deadline()
	if !ok {
		t.Fatalf("expected upstream context to carry a deadline")
	}
	if d := deadline.Sub(before); d <= 0 || d > 5*time.Second+time.Second {
		t.Fatalf("unexpected deadline distance %v", d)
	}
	if gen.image.MIMEType != mimePNG {
		t.Fatalf("expected MIME passthrough, got %q", gen.image.MIMEType)
	}
}

func TestServiceDefaultTimeout(t *testing.T) {
	quietLogs(t)
	gen := &fakeGenerator{reply: successReply}
	svc := &Service{Generator: gen}

	before := time.Now()
	if _, err := svc.Analyze(context.Background(), Image{MIMEType: mimeJPEG, Data: []byte{1}}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	deadline, _ := gen.ctx.Deadline()
	if d := deadline.Sub(before); d < DefaultTimeout-time.Second || d > DefaultTimeout+time.Second {
		t.Fatalf("expected ~%v deadline, got %v", DefaultTimeout, d)
	}
}

func TestServiceTimeoutFails(t *testing.T) {
	logs := quietLogs(t)
	svc := &Service{Generator: blockingGenerator{}, Timeout: 20 * time.Millisecond}

	_, err := svc.Analyze(context.Background(), Image{MIMEType: mimeJPEG, Data: []byte{1}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(logs.String(), "analysis.upstream_failed") {
		t.Fatalf("expected upstream failure log, got %q", logs.String())
	}
}

func TestServiceCallerCancellation(t *testing.T) {
	quietLogs(t)
	svc := &Service{Generator: blockingGenerator{}, Timeout: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := svc.Analyze(ctx, Image{MIMEType: mimeJPEG, Data: []byte{1}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestServiceLogsRawReplyOnParseFailure(t *testing.T) {
	logs := quietLogs(t)
	svc := &Service{Generator: &fakeGenerator{reply: "not json at all"}}

	_, err := svc.Analyze(WithRequestID(context.Background(), "req-1"), Image{MIMEType: mimeJPEG, Data: []byte{1}})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "analysis.parse_failed") || !strings.Contains(out, "not json at all") || !strings.Contains(out, "req-1") {
		t.Fatalf("expected parse failure log with raw text and request id, got %q", out)
	}
}

func TestServiceCountsOutcomes(t *testing.T) {
	quietLogs(t)
	before := metrics.Render()

	svc := &Service{Generator: &fakeGenerator{reply: successReply}}
	if _, err := svc.Analyze(context.Background(), Image{MIMEType: mimeJPEG, Data: []byte{1}}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	after := metrics.Render()
	if before == after {
		t.Fatalf("expected metrics to change after an analysis")
	}
	if !strings.Contains(after, "analysis_completed_total") {
		t.Fatalf("expected completed counter in output")
	}
}

func TestServiceUnknownPromptVersion(t *testing.T) {
	quietLogs(t)
	gen := &fakeGenerator{reply: successReply}
	svc := &Service{Generator: gen, PromptVersion: "nope"}
	if _, err := svc.Analyze(context.Background(), Image{}); err == nil {
		t.Fatalf("expected error for unknown prompt version")
	}
	if gen.calls != 0 {
		t.Fatalf("expected no upstream call")
	}
}
