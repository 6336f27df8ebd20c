package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func invokeAuth(t *testing.T, cookie *http.Cookie) (userID string, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(testSecret)(func(c echo.Context) error {
		userID, _ = c.Get("user_id").(string)
		return nil
	})
	err = handler(c)
	return userID, err
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	userID, err := invokeAuth(t, &http.Cookie{Name: SessionCookie, Value: token})
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if userID != "u1" {
		t.Fatalf("user_id = %q, want u1", userID)
	}
}

func TestAuth_Rejects(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noIdentity := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"missing cookie", nil},
		{"empty cookie", &http.Cookie{Name: SessionCookie, Value: ""}},
		{"garbage token", &http.Cookie{Name: SessionCookie, Value: "not-a-jwt"}},
		{"expired token", &http.Cookie{Name: SessionCookie, Value: expired}},
		{"wrong signing key", &http.Cookie{Name: SessionCookie, Value: wrongKey}},
		{"missing user_id claim", &http.Cookie{Name: SessionCookie, Value: noIdentity}},
	}
	for _, tc := range cases {
		_, err := invokeAuth(t, tc.cookie)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 HTTPError, got %v", tc.name, err)
		}
	}
}
