package analysis

import "encoding/json"

// Result codes returned by the model and relayed to callers.
const (
	CodeSuccess       = "success"
	CodeNotPlant      = "not_plant"
	CodeLowConfidence = "low_confidence"
	CodeError         = "error"
)

// CurveLength is the number of monthly entries in an activity curve.
const CurveLength = 12

// DefaultActivityNotes replaces empty activity notes in a success result.
const DefaultActivityNotes = "활동성 정보가 없습니다."

// PlantType is the 0–7 plant category carried as type_code.
type PlantType int

const (
	TypeOther PlantType = iota
	TypeFlower
	TypeShrub
	TypeTree
	TypeCactusSucculent
	TypeAquatic
	TypeVine
	TypeGrass
)

var typeLabels = [...]string{
	TypeOther:           "기타",
	TypeFlower:          "꽃",
	TypeShrub:           "관목",
	TypeTree:            "나무",
	TypeCactusSucculent: "선인장/다육",
	TypeAquatic:         "수중식물",
	TypeVine:            "덩굴식물",
	TypeGrass:           "잔디류",
}

// Valid reports whether t is one of the eight known categories.
func (t PlantType) Valid() bool {
	return t >= TypeOther && t <= TypeGrass
}

// Label returns the display label for t, or the "other" label if t is unknown.
func (t PlantType) Label() string {
	if !t.Valid() {
		return typeLabels[TypeOther]
	}
	return typeLabels[t]
}

var fallbackCurve = [CurveLength]float64{0.3, 0.3, 0.4, 0.6, 0.8, 0.9, 0.9, 0.8, 0.6, 0.4, 0.3, 0.3}

// FallbackActivityCurve returns a fresh copy of the curve used when the model
// omits a usable one.
func FallbackActivityCurve() []float64 {
	out := make([]float64, CurveLength)
	copy(out, fallbackCurve[:])
	return out
}

// Result is the tagged union returned by POST /analyze. Success results carry
// the identification fields; every other code carries only Error.
type Result struct {
	Code          string
	Name          string
	Type          string
	TypeCode      PlantType
	Description   string
	ActivityCurve []float64
	ActivityNotes string
	Error         string
}

type successBody struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	TypeCode      PlantType `json:"type_code"`
	Description   string    `json:"description"`
	ActivityCurve []float64 `json:"activity_curve"`
	ActivityNotes string    `json:"activity_notes"`
}

type failureBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// MarshalJSON emits only the fields that belong to r.Code.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Code == CodeSuccess {
		return json.Marshal(successBody{
			Code:          r.Code,
			Name:          r.Name,
			Type:          r.Type,
			TypeCode:      r.TypeCode,
			Description:   r.Description,
			ActivityCurve: r.ActivityCurve,
			ActivityNotes: r.ActivityNotes,
		})
	}
	return json.Marshal(failureBody{Code: r.Code, Error: r.Error})
}
