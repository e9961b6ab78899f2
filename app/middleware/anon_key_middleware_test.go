package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/concept-studio/app/services"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(t *testing.T, header string) (*fiber.App, services.AnonKeyService) {
	t.Helper()
	svc, err := services.NewAnonKeyService("test-secret-key-for-anon-signing-32-chars")
	require.NoError(t, err)

	guard := NewAnonKeyMiddleware(svc, header)
	app := fiber.New()
	app.Get("/protected", guard.Authenticate(), func(c fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		return c.SendString(role)
	})
	return app, svc
}

func TestAnonKeyMiddleware(t *testing.T) {
	app, svc := newGuardedApp(t, "")
	valid, err := svc.IssueAnonKey(time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{name: "apikey header", header: map[string]string{DefaultAnonKeyHeader: valid}, status: http.StatusOK},
		{name: "bearer token", header: map[string]string{"Authorization": "Bearer " + valid}, status: http.StatusOK},
		{name: "missing key", header: nil, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: map[string]string{"Authorization": "Basic abc"}, status: http.StatusUnauthorized},
		{name: "garbage key", header: map[string]string{DefaultAnonKeyHeader: "garbage"}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAnonKeyMiddlewareCustomHeader(t *testing.T) {
	app, svc := newGuardedApp(t, "X-Anon-Key")
	valid, err := svc.IssueAnonKey(0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Anon-Key", valid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The default header is not consulted once another is configured
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(DefaultAnonKeyHeader, valid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
