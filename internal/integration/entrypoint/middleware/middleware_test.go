package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/receipt-ledger/backend/internal/application/adapter"
)

type stubTokenService struct {
	claims *adapter.TokenClaims
}

func (s *stubTokenService) GenerateTokenPair(_ context.Context, _ uuid.UUID, _ string) (*adapter.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccessToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	if s.claims == nil {
		return nil, errors.New("invalid token")
	}
	return s.claims, nil
}

func (s *stubTokenService) ValidateRefreshToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) InvalidateRefreshToken(_ context.Context, _ string) error {
	return nil
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newEngine := func(svc adapter.TokenService) *gin.Engine {
		engine := gin.New()
		engine.GET("/protected", NewAuthMiddleware(svc).Authenticate(), func(c *gin.Context) {
			id, ok := GetUserIDFromContext(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{"user_id": id})
		})
		return engine
	}

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		svc := &stubTokenService{claims: &adapter.TokenClaims{UserID: userID, Email: "user@example.com"}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		newEngine(svc).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejected requests", func(t *testing.T) {
		cases := []struct {
			name   string
			header string
		}{
			{"missing header", ""},
			{"wrong scheme", "Basic abc"},
			{"empty token", "Bearer "},
			{"invalid token", "Bearer bad"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				newEngine(&stubTokenService{}).ServeHTTP(rec, req)
				if rec.Code != http.StatusUnauthorized {
					t.Errorf("expected 401, got %d", rec.Code)
				}
			})
		}
	})
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Now()

	t.Run("caps attempts inside one window", func(t *testing.T) {
		rl := NewRateLimiter()
		for i := 0; i < loginAttemptsPerWindow; i++ {
			if !rl.allow("10.0.0.1", now) {
				t.Fatalf("attempt %d should be allowed", i+1)
			}
		}
		if rl.allow("10.0.0.1", now) {
			t.Error("expected the attempt over the cap rejected")
		}
		if !rl.allow("10.0.0.2", now) {
			t.Error("expected another caller unaffected")
		}
	})

	t.Run("an expired window reopens", func(t *testing.T) {
		rl := NewRateLimiter()
		for i := 0; i < loginAttemptsPerWindow; i++ {
			rl.allow("10.0.0.1", now)
		}
		later := now.Add(loginWindow + time.Second)
		if !rl.allow("10.0.0.1", later) {
			t.Error("expected a fresh window after expiry")
		}
	})

	t.Run("expired windows are pruned", func(t *testing.T) {
		rl := NewRateLimiter()
		rl.allow("10.0.0.1", now)
		rl.allow("10.0.0.2", now.Add(loginWindow+time.Second))
		if len(rl.windows) != 1 {
			t.Errorf("expected the stale window pruned, got %d entries", len(rl.windows))
		}
	})
}
