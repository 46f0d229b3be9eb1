package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/telemetry"
)

func TestRecoveryReturnsGenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["code"] != "error" {
		t.Fatalf("expected code=error, got %v", body["code"])
	}
	if body["error"] == "" || body["error"] == nil {
		t.Fatalf("expected error message")
	}
}

func TestRecoveryAfterWriteKeepsResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	r := gin.New()
	r.Use(Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": "success"})
		panic("late")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/late", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 to stand, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("expected a single JSON document: %v", err)
	}
	if body["code"] != "success" {
		t.Fatalf("unexpected body: %v", body)
	}
}
