package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilderTriggers(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerBudgetChanged().
		TriggerSuccessNotification("Budget created").
		Write(rr)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	header := rr.Header().Get("HX-Trigger")
	if header == "" {
		t.Fatal("HX-Trigger header missing")
	}

	var triggers map[string]any
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if _, ok := triggers["budget:changed"]; !ok {
		t.Error("budget:changed trigger missing")
	}
	notif, ok := triggers["show-notification"].(map[string]any)
	if !ok {
		t.Fatal("show-notification trigger missing")
	}
	if notif["type"] != "success" {
		t.Errorf("notification type = %v, want success", notif["type"])
	}
	if notif["duration"] != float64(3000) {
		t.Errorf("notification duration = %v, want 3000", notif["duration"])
	}
}

func TestHTMXResponseBuilderTransactionTrigger(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().TriggerTransactionChanged("acc-1", 2024, 3).Write(rr)

	var triggers map[string]any
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	data, ok := triggers["transaction:changed"].(map[string]any)
	if !ok {
		t.Fatal("transaction:changed trigger missing")
	}
	if data["account"] != "acc-1" || data["year"] != float64(2024) || data["month"] != float64(3) {
		t.Errorf("trigger data = %v", data)
	}
}

func TestErrorResponseEscapesHTML(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, `<script>alert("x")</script>`).Write(rr)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("body contains unescaped HTML: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("body missing escaped message: %s", body)
	}
}

func TestFieldErrorsResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	FieldErrorsResponse(FieldErrors{
		{Field: "name", Message: "name is required"},
		{Field: "amount", Message: "amount is required"},
	}).Write(rr)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `data-field="name"`) || !strings.Contains(body, `data-field="amount"`) {
		t.Errorf("body missing per-field entries: %s", body)
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
	resp := RequireMethod(req, http.MethodPost)
	if resp == nil {
		t.Fatal("RequireMethod() = nil for mismatched method")
	}

	rr := httptest.NewRecorder()
	resp.Write(rr)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if rr.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q, want POST", rr.Header().Get("Allow"))
	}

	req = httptest.NewRequest(http.MethodPost, "/budgets", nil)
	if resp := RequireMethod(req, http.MethodPost); resp != nil {
		t.Error("RequireMethod() should be nil for matching method")
	}
}
