package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library_catalog/internal/logger"
	"library_catalog/internal/models"
	"library_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware and a probe endpoint
func newMiddlewareOnlyRouter(t *testing.T, s *service.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Nop(), nil, "")
	t.Cleanup(h.Close)
	r := gin.New()
	r.GET("/secure", h.authMiddleware, func(c *gin.Context) {
		identity, _ := identityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"ok": true, "username": identity.Username})
	})
	return r
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		authErr error
		wantMsg string
	}{
		{
			name:    "missing header",
			header:  "",
			wantMsg: "missing Authorization header",
		},
		{
			name:    "wrong scheme",
			header:  "Token abc",
			wantMsg: "invalid Authorization header format",
		},
		{
			name:    "bearer without token",
			header:  "Bearer",
			wantMsg: "invalid Authorization header format",
		},
		{
			name:    "expired or invalid token",
			header:  "Bearer expired",
			authErr: service.ErrInvalidToken,
			wantMsg: "invalid or expired token",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{authErr: tc.authErr}
			r := newMiddlewareOnlyRouter(t, &service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestAuthMiddleware_SuccessStoresIdentity(t *testing.T) {
	auth := &mockAuth{identity: models.Identity{Username: "alice01", TokenID: "jti-1"}}
	r := newMiddlewareOnlyRouter(t, &service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		OK       bool   `json:"ok"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.Username != "alice01" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastToken != "good-token" {
		t.Fatalf("Authenticate got %q, want %q", auth.lastToken, "good-token")
	}
}
