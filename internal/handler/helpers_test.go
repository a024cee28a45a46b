package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadence/internal/domain"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad input", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("item x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("not yours: %w", domain.ErrForbidden), http.StatusForbidden},
		{"conflict struct", &domain.ConflictError{Message: "taken", ResourceType: "project", ResourceID: "p1", Field: "key"}, http.StatusConflict},
		// Repositories wrap the bare sentinel when the database itself
		// reports a duplicate or FK violation lost to a race.
		{"conflict sentinel", fmt.Errorf("organization slug acme already taken: %w", domain.ErrConflict), http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q, want application/problem+json", ct)
			}
		})
	}
}

func TestHandleErrorConflictExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, &domain.ConflictError{
		Message:      "a project with key \"DEMO\" already exists",
		ResourceType: "project",
		ResourceID:   "p1",
		Field:        "key",
	})

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != float64(http.StatusConflict) {
		t.Errorf("status member = %v, want 409", body["status"])
	}
	if body["resource_type"] != "project" || body["resource_id"] != "p1" || body["field"] != "key" {
		t.Errorf("extras = %v, want resource_type/resource_id/field alongside the standard members", body)
	}
}
