package health

// DefaultMessage is returned by the liveness endpoints.
const DefaultMessage = "식물 분석 API 서버가 정상 작동 중입니다."

// Payload is the liveness body.
type Payload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service encapsulates health-related checks.
type Service struct {
	message string
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{message: DefaultMessage}
}

// Status returns a simple health payload.
func (s *Service) Status() Payload {
	return Payload{Status: "ok", Message: s.message}
}
