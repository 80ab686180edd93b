package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventResult Event = "result"
	EventPong   Event = "pong"
)

// ResultEvent is pushed to the form owner's live dashboard whenever a
// response on the form is graded.
type ResultEvent struct {
	Event      Event   `json:"event"`
	FormID     string  `json:"form_id"`
	ResponseID string  `json:"response_id"`
	UserID     *string `json:"user_id,omitempty"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Passed     bool    `json:"passed"`
	FinishedAt string  `json:"finished_at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}
