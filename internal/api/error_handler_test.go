package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec.Code, strings.TrimSpace(rec.Body.String())
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "invalid credential"},
		{domain.ErrEmailExists, http.StatusBadRequest, "email already exists"},
		{domain.ErrEmptyMessage, http.StatusBadRequest, domain.ErrEmptyMessage.Error()},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	}
	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.wantCode {
			t.Fatalf("%v: status = %d, want %d", tc.err, code, tc.wantCode)
		}
		want := fmt.Sprintf(`{"error":%q}`, tc.wantMsg)
		if body != want {
			t.Fatalf("%v: body = %s, want %s", tc.err, body, want)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	code, body := renderError(t, fmt.Errorf("persist message: %w", domain.ErrEmptyMessage))
	if code != http.StatusBadRequest || !strings.Contains(body, "error") {
		t.Fatalf("wrapped domain errors must still map: %d %s", code, body)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing session"))
	if code != http.StatusUnauthorized || body != `{"error":"missing session"}` {
		t.Fatalf("unexpected echo error rendering: %d %s", code, body)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if strings.Contains(body, "mongo") {
		t.Fatalf("internal detail must not leak to the client: %s", body)
	}
	if body != `{"error":"internal server error"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}
