package calculator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *Store) {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	store := NewStore(newTestEngine(t))
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(store))
	return r, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.ExecuteRequest(testutil.NewJSONRequest(t, method, path, body), h)
}

func TestEvaluateHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name     string
		body     EvaluateRequest
		result   string
		kind     string
		advisory string
	}{
		{name: "default context", body: EvaluateRequest{Expression: "2^10"}, result: "1024", kind: "bignumber"},
		{name: "hex", body: EvaluateRequest{Expression: "FF", Mode: "programming", Base: "hex"}, result: "FF", kind: "bignumber"},
		{name: "currency", body: EvaluateRequest{Expression: "10 USD to EUR", Mode: "ECONOMICS"}, result: "9.26 EUR", kind: "unit"},
		{name: "degrees", body: EvaluateRequest{Expression: "cos(0)", Angle: "DEG"}, result: "1", kind: "number"},
		{
			name: "advisory", body: EvaluateRequest{Expression: "1/2", Mode: "PROGRAMMING", Base: "BIN"},
			result: "0.5", kind: "bignumber", advisory: notIntegerAdvisory,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/calculator/evaluate", tc.body)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp EvaluateResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Result != tc.result || resp.Kind != tc.kind || resp.Advisory != tc.advisory {
				t.Fatalf("expected %q (%s, %q), got %+v", tc.result, tc.kind, tc.advisory, resp)
			}
		})
	}
}

func TestEvaluateHandlerErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "syntax", body: EvaluateRequest{Expression: "2+"}, status: http.StatusUnprocessableEntity},
		{name: "undefined", body: EvaluateRequest{Expression: "foo"}, status: http.StatusUnprocessableEntity},
		{name: "unit mismatch", body: EvaluateRequest{Expression: "1 m + 1 kg", Mode: "PHYSICS"}, status: http.StatusUnprocessableEntity},
		{name: "bad mode", body: EvaluateRequest{Expression: "1", Mode: "SCIENCE"}, status: http.StatusBadRequest},
		{name: "bad base", body: EvaluateRequest{Expression: "1", Base: "TRI"}, status: http.StatusBadRequest},
		{name: "unknown field", body: map[string]string{"expr": "1"}, status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/calculator/evaluate", tc.body)
			testutil.CheckResponseCode(t, tc.status, w.Code)

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if body["error"] == "" {
				t.Fatal("expected error message in body")
			}
		})
	}
}

func TestPreprocessHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/calculator/preprocess",
		PreprocessRequest{Expression: "A AND 3", Mode: "PROGRAMMING", Base: "HEX"})
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp PreprocessResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Preprocessed != "0xA and 0x3" {
		t.Fatalf("expected %q, got %q", "0xA and 0x3", resp.Preprocessed)
	}
}

func TestLayoutHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/calculator/layouts/programming?base=BIN", nil)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp LayoutResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Mode != Programming || resp.Base != Bin {
		t.Fatalf("unexpected context %s/%s", resp.Mode, resp.Base)
	}

	enabled := map[string]bool{}
	for _, b := range resp.Buttons {
		enabled[b.Display] = b.Enabled
	}
	if enabled["2"] || !enabled["1"] || enabled["A"] {
		t.Fatalf("unexpected enabled states %v", enabled)
	}
	if len(resp.Selectors) != len(Bases) {
		t.Fatalf("expected base selectors, got %+v", resp.Selectors)
	}

	w = doJSON(t, router, http.MethodGet, "/calculator/layouts/cooking", nil)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestCurrenciesHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/calculator/currencies", nil)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp []CurrencyResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if len(resp) == 0 || resp[0].Code != "USD" || resp[0].Rate != "1" {
		t.Fatalf("expected USD first, got %+v", resp)
	}
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/calculator/sessions", nil)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var snap SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &snap)
	return snap.SessionID
}

func TestSessionPressSequence(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	var snap SessionResponse
	for _, p := range []PressRequest{
		{Value: "2", Kind: KindNumber},
		{Value: "+", Kind: KindOperator},
		{Value: "3", Kind: KindNumber},
		{Value: "=", Kind: KindEquals},
	} {
		w := doJSON(t, router, http.MethodPost, "/calculator/sessions/"+id+"/press", p)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
		snap = SessionResponse{}
		testutil.DecodeJSONBody(t, w.Body, &snap)
	}

	if snap.State.CurrentText != "5" || !snap.State.ResultPinned {
		t.Fatalf("expected pinned 5, got %+v", snap.State)
	}
	if snap.Display.Previous != "2+3 =" || snap.Display.Main != "5" {
		t.Fatalf("unexpected display %+v", snap.Display)
	}

	w := doJSON(t, router, http.MethodGet, "/calculator/sessions/"+id, nil)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestSessionSelectors(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)
	base := "/calculator/sessions/" + id

	w := doJSON(t, router, http.MethodPut, base+"/base", BaseRequest{Base: "HEX"})
	testutil.CheckResponseCode(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/mode", ModeRequest{Mode: "PROGRAMMING"})
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/key", KeyEvent{Key: "9"})
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/base", BaseRequest{Base: "BIN"})
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var snap SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &snap)
	if snap.Base != Bin || snap.State.CurrentText != "1001" {
		t.Fatalf("expected 1001 in BIN, got %+v", snap)
	}

	w = doJSON(t, router, http.MethodPost, base+"/press", PressRequest{Value: "2", Kind: KindNumber})
	testutil.CheckResponseCode(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/key", KeyEvent{Key: "q"})
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/angle", AngleRequest{Angle: "GRAD"})
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/angle", AngleRequest{Angle: "DEG"})
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestSessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{method: http.MethodGet, path: "/calculator/sessions/nope"},
		{method: http.MethodDelete, path: "/calculator/sessions/nope"},
		{method: http.MethodPost, path: "/calculator/sessions/nope/press", body: PressRequest{Value: "1", Kind: KindNumber}},
		{method: http.MethodPut, path: "/calculator/sessions/nope/mode", body: ModeRequest{Mode: "GENERIC"}},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := doJSON(t, router, tc.method, tc.path, tc.body)
			testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	router, store := newTestRouter(t)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodDelete, "/calculator/sessions/"+id, nil)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d sessions", store.Len())
	}
}
