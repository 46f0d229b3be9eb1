package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncAnalysisStarted()
	IncAnalysisCompleted()
	IncTypeCodeCoerced()
	ObserveUpstreamDurationMs(420)
	ObserveUpstreamDurationMs(-5)

	out := Render()
	for _, want := range []string{
		"# TYPE analysis_started_total counter",
		"analysis_completed_total ",
		"analysis_rejected_total ",
		"analysis_type_code_coerced_total ",
		`analysis_upstream_duration_ms_bucket{le="500"}`,
		`analysis_upstream_duration_ms_bucket{le="+Inf"}`,
		"analysis_upstream_duration_ms_count ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected per-bucket counts: %v", snap.counts)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
