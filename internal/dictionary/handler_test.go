package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/telemetry"
)

type failingRepo struct{}

func (failingRepo) List(ctx context.Context) ([]Row, error) {
	return nil, errors.New("db down")
}

func serve(t *testing.T, repo Repo) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	r := gin.New()
	NewHandler(&Service{Repo: repo}).RegisterRoutes(r)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/dictionary", nil))
	return resp
}

func TestListDictionary(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(Row{ID: "p-1", PlantName: strPtr("달맞이꽃"), TypeCode: intPtr(1), Season: []bool{true}, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})

	resp := serve(t, repo)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(body.Entries))
	}
	e := body.Entries[0]
	if e["id"] != "p-1" || e["plant_name"] != "달맞이꽃" || e["type"] != "꽃" || e["type_code"] != float64(1) {
		t.Fatalf("unexpected entry %v", e)
	}
	if e["created_at"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected created_at %v", e["created_at"])
	}
}

func TestListDictionaryEmpty(t *testing.T) {
	resp := serve(t, NewMemoryRepo())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != `{"entries":[]}` {
		t.Fatalf("expected empty list, got %s", got)
	}
}

func TestListDictionaryRepoError(t *testing.T) {
	resp := serve(t, failingRepo{})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
