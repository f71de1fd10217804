package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions map[string]uint

func (s stubSessions) ValidateSession(_ context.Context, token string) (uint, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown session")
}

func TestAuthRequired(t *testing.T) {
	sessions := stubSessions{"good-token": 123}

	app := fiber.New()
	app.Get("/test", AuthRequired(sessions), func(c *fiber.Ctx) error {
		userID, _ := CurrentUserID(c)
		ctxID, _ := c.UserContext().Value(UserIDKey).(uint)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": userID, "ctxUserID": ctxID})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{"Happy Path", "Bearer good-token", http.StatusOK, 123},
		{"Lowercase Scheme", "bearer good-token", http.StatusOK, 123},
		{"Missing Header", "", http.StatusUnauthorized, 0},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, 0},
		{"Unknown Token", "Bearer revoked-token", http.StatusUnauthorized, 0},
		{"Empty Token", "Bearer ", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
				assert.Equal(t, float64(tt.expectedUserID), body["ctxUserID"])
			} else {
				assert.Equal(t, "UNAUTHORIZED", body["error"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/feed", OptionalAuth(stubSessions{"good-token": 7}), func(c *fiber.Ctx) error {
		id, ok := CurrentUserID(c)
		return c.JSON(fiber.Map{"authenticated": ok, "userID": id})
	})

	cases := map[string]bool{"Bearer good-token": true, "Bearer nope": false, "": false}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, body["authenticated"], header)
	}
}
