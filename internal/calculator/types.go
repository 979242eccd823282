package calculator

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode"`  // defaults to GENERIC
	Base       string `json:"base"`  // defaults to DEC
	Angle      string `json:"angle"` // defaults to RAD
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression   string `json:"expression"`
	Preprocessed string `json:"preprocessed"`
	Result       string `json:"result"`
	Advisory     string `json:"advisory,omitempty"`
	Kind         string `json:"kind"`
}

// PreprocessRequest is the JSON body for POST /calculator/preprocess.
type PreprocessRequest struct {
	Expression string `json:"expression"`
	Mode       string `json:"mode"`
	Base       string `json:"base"`
}

type PreprocessResponse struct {
	Preprocessed string `json:"preprocessed"`
}

// LayoutButton is a button together with its enabled state.
type LayoutButton struct {
	Button
	Enabled bool `json:"enabled"`
}

// LayoutResponse is the JSON response for GET /calculator/layouts/{mode}.
type LayoutResponse struct {
	Mode      Mode           `json:"mode"`
	Base      Base           `json:"base"`
	Buttons   []LayoutButton `json:"buttons"`
	Selectors []Button       `json:"selectors"`
}

// CurrencyResponse describes one currency, rate in USD.
type CurrencyResponse struct {
	Code      string `json:"code"`
	Title     string `json:"title"`
	Rate      string `json:"rate"`
	Precision int32  `json:"precision"`
}

// PressRequest is the JSON body for POST /calculator/sessions/{id}/press.
type PressRequest struct {
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
}

// ModeRequest, BaseRequest and AngleRequest are the bodies of the selector
// PUT endpoints.
type ModeRequest struct {
	Mode string `json:"mode"`
}

type BaseRequest struct {
	Base string `json:"base"`
}

type AngleRequest struct {
	Angle string `json:"angle"`
}

// DisplayLines are the two rendered display lines.
type DisplayLines struct {
	Previous string `json:"previous"`
	Main     string `json:"main"`
}

// SessionResponse is the snapshot returned by every session endpoint and
// pushed over the WebSocket after each event.
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	Mode      Mode         `json:"mode"`
	Base      Base         `json:"base"`
	Angle     AngleUnit    `json:"angle"`
	State     DisplayState `json:"state"`
	Display   DisplayLines `json:"display"`
}

func snapshot(id string, s *Session) SessionResponse {
	st := s.State()
	prev, main := st.Lines()
	return SessionResponse{
		SessionID: id,
		Mode:      s.Mode(),
		Base:      s.Base(),
		Angle:     s.Angle(),
		State:     st,
		Display:   DisplayLines{Previous: prev, Main: main},
	}
}

// WSMessage is a client frame on the session WebSocket.
type WSMessage struct {
	Type  string   `json:"type"` // "press", "key", "mode", "base", "angle", "ping"
	Value string   `json:"value,omitempty"`
	Kind  Kind     `json:"kind,omitempty"`
	Key   KeyEvent `json:"key"`
}

// WSResponse is a server frame on the session WebSocket.
type WSResponse struct {
	Type    string           `json:"type"` // "state", "error", "pong"
	Session *SessionResponse `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
}
