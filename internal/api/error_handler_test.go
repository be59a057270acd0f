package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	validation := &domain.ValidationError{Violations: []domain.Violation{
		{Field: "email", Rule: domain.RuleUnique, Message: "The email has already been taken."},
	}}

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMsg     string
		wantDetails int
	}{
		{name: "validation", err: validation, wantCode: http.StatusUnprocessableEntity, wantMsg: validation.Error(), wantDetails: 1},
		{name: "wrapped validation", err: fmt.Errorf("register: %w", validation), wantCode: http.StatusUnprocessableEntity, wantMsg: validation.Error(), wantDetails: 1},
		{name: "invalid credentials", err: domain.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, wantMsg: "invalid credentials"},
		{name: "unauthenticated", err: domain.ErrUnauthenticated, wantCode: http.StatusUnauthorized, wantMsg: "unauthenticated"},
		{name: "echo error", err: echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), wantCode: http.StatusBadRequest, wantMsg: "invalid payload"},
		{name: "unexpected", err: errors.New("redis: connection refused"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp struct {
				Error   string             `json:"error"`
				Details []domain.Violation `json:"details"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, resp.Error)
			}
			if len(resp.Details) != tt.wantDetails {
				t.Fatalf("expected %d details, got %+v", tt.wantDetails, resp.Details)
			}
		})
	}
}
