package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
)

type stubVerifier struct {
	principal auth.Principal
	err       error
}

func (s stubVerifier) Verify(token string) (auth.Principal, error) {
	if token != "good" {
		return auth.Principal{}, errors.New("bad token")
	}
	return s.principal, s.err
}

func newAuthRouter(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(v))
	router.GET("/api/v1/matches", Authenticated(func(c *gin.Context, p auth.Principal) {
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "role": p.Role})
	}))
	router.OPTIONS("/api/v1/matches", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(stubVerifier{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/matches", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingOrInvalidToken(t *testing.T) {
	router := newAuthRouter(stubVerifier{principal: auth.Principal{UserID: "u1"}})

	for _, header := range []string{"", "Token good", "Bearer ", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Message != "unauthorized" {
			t.Fatalf("unexpected message %q", body.Error.Message)
		}
	}
}

func TestAuthPassesPrincipalToHandler(t *testing.T) {
	router := newAuthRouter(stubVerifier{principal: auth.Principal{UserID: "u1", Role: "HR"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["userId"] != "u1" || body["role"] != "HR" {
		t.Fatalf("unexpected body: %v", body)
	}
}
