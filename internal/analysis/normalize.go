package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"plant-relay/internal/shared/metrics"
	"plant-relay/internal/shared/telemetry"
)

var validate = validator.New()

var (
	fenceOpen  = regexp.MustCompile("(?i)^```[a-z0-9_+-]*[ \t]*\r?\n?")
	fenceClose = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// StripCodeFences removes a surrounding ``` or ```json fence from model output.
// Text that is not fenced is only trimmed, so the function is idempotent.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

type successPayload struct {
	Name          string          `json:"name" validate:"required"`
	Type          string          `json:"type" validate:"required"`
	TypeCode      json.RawMessage `json:"type_code" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	ActivityCurve json.RawMessage `json:"activity_curve"`
	ActivityNotes json.RawMessage `json:"activity_notes"`
}

type failurePayload struct {
	Error string `json:"error" validate:"required"`
}

// Normalize turns raw model text into a Result. Fenced output is unwrapped,
// non-JSON yields a *ParseError, and schema violations wrap ErrSchema. On a
// success result type_code, activity_curve and activity_notes are corrected
// in place rather than rejected.
func Normalize(text string) (Result, error) {
	cleaned := StripCodeFences(text)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return Result{}, &ParseError{Raw: text, Err: err}
	}
	var code string
	if raw, ok := top["code"]; ok {
		if err := json.Unmarshal(raw, &code); err != nil {
			return Result{}, fmt.Errorf("%w: code must be a string", ErrSchema)
		}
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Result{}, fmt.Errorf("%w: code is required", ErrSchema)
	}

	switch code {
	case CodeSuccess:
		return normalizeSuccess([]byte(cleaned))
	case CodeNotPlant, CodeLowConfidence, CodeError:
		var p failurePayload
		if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		p.Error = strings.TrimSpace(p.Error)
		if err := validate.Struct(p); err != nil {
			return Result{}, fmt.Errorf("%w: %s reply: %v", ErrSchema, code, err)
		}
		return Result{Code: code, Error: p.Error}, nil
	default:
		return Result{}, fmt.Errorf("%w: unknown code %q", ErrSchema, code)
	}
}

func normalizeSuccess(raw []byte) (Result, error) {
	var p successPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if isNull(p.TypeCode) {
		p.TypeCode = nil
	}
	if err := validate.Struct(p); err != nil {
		return Result{}, fmt.Errorf("%w: success reply: %v", ErrSchema, err)
	}

	out := Result{
		Code:        CodeSuccess,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
	}

	typeCode, ok := toNumber(p.TypeCode)
	inRange := typeCode >= float64(TypeOther) && typeCode <= float64(TypeGrass)
	if ok && inRange && typeCode == math.Trunc(typeCode) {
		out.TypeCode = PlantType(typeCode)
	} else {
		telemetry.Warn("analysis.type_code_coerced", map[string]any{
			"type_code": string(p.TypeCode),
			"type":      p.Type,
		})
		metrics.IncTypeCodeCoerced()
		out.TypeCode = TypeOther
		out.Type = TypeOther.Label()
	}

	out.ActivityCurve = normalizeCurve(p.ActivityCurve)
	out.ActivityNotes = DefaultActivityNotes
	var notes string
	if err := json.Unmarshal(p.ActivityNotes, &notes); err == nil && strings.TrimSpace(notes) != "" {
		out.ActivityNotes = notes
	}
	return out, nil
}

// normalizeCurve substitutes the fallback curve unless raw is an array of
// exactly CurveLength entries, then clamps every entry into [0,1]. Entries
// that are not numbers become 0.
func normalizeCurve(raw json.RawMessage) []float64 {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) != CurveLength {
		return FallbackActivityCurve()
	}
	out := make([]float64, CurveLength)
	for i, item := range items {
		v, ok := toNumber(item)
		if !ok {
			v = 0
		}
		out[i] = clampUnit(v)
	}
	return out
}

// ClampCurve applies the activity curve rules to an already-decoded curve.
// A nil curve stays nil; any other length is replaced by the fallback.
func ClampCurve(curve []float64) []float64 {
	if curve == nil {
		return nil
	}
	if len(curve) != CurveLength {
		return FallbackActivityCurve()
	}
	out := make([]float64, CurveLength)
	for i, v := range curve {
		out[i] = clampUnit(v)
	}
	return out
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// toNumber accepts JSON numbers and numeric strings. A numeral too large
// for float64 comes back as ±Inf so callers can clamp it by sign.
func toNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	}
	f, err := strconv.ParseFloat(text, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return f, true
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		// Spelled-out "NaN" or "Inf" is not a number we accept.
		return 0, false
	}
	return f, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
