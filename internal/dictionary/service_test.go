package dictionary

import (
	"bytes"
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"plant-relay/internal/analysis"
	"plant-relay/internal/shared/telemetry"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestServiceListAppliesLabelsAndCurveRules(t *testing.T) {
	var logs bytes.Buffer
	telemetry.SetOutput(&logs)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	repo := NewMemoryRepo()
	now := time.Now().UTC()
	repo.Put(Row{ID: "b", PlantName: strPtr("장미"), TypeCode: intPtr(2), ActivityCurve: []float64{2, -1, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, CreatedAt: now})
	repo.Put(Row{ID: "a", PlantName: strPtr("고사리"), TypeCode: intPtr(11), ActivityCurve: []float64{0.1}, CreatedAt: now})
	repo.Put(Row{ID: "c", CreatedAt: now})

	entries, err := (&Service{Repo: repo}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "b" || entries[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}

	fern := entries[0]
	if fern.TypeCode != analysis.TypeOther || fern.Type != "기타" {
		t.Fatalf("expected out-of-range code coerced, got %d/%q", fern.TypeCode, fern.Type)
	}
	if !reflect.DeepEqual(fern.ActivityCurve, analysis.FallbackActivityCurve()) {
		t.Fatalf("expected fallback curve, got %v", fern.ActivityCurve)
	}

	rose := entries[1]
	if rose.TypeCode != analysis.TypeShrub || rose.Type != "관목" {
		t.Fatalf("unexpected type %d/%q", rose.TypeCode, rose.Type)
	}
	if rose.ActivityCurve[0] != 1 || rose.ActivityCurve[1] != 0 {
		t.Fatalf("expected clamped curve, got %v", rose.ActivityCurve)
	}

	blank := entries[2]
	if blank.Type != "기타" || blank.ActivityCurve != nil {
		t.Fatalf("unexpected blank entry %+v", blank)
	}
}
