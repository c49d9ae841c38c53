package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/productdigest/content-api/configs"
	"github.com/productdigest/content-api/pkg/utils"
)

func cronApp(secret string) *fiber.App {
	app := fiber.New()
	m := NewCronAuthMiddleware(config.Config{CronSecret: secret})
	app.Post("/api/posts/publish-due", m.CronAuth(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func request(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/posts/publish-due", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCronAuthSharedSecret(t *testing.T) {
	app := cronApp("super-secreto")

	assert.Equal(t, 200, request(t, app, "Bearer super-secreto"))
	assert.Equal(t, 401, request(t, app, "Bearer incorrecto"))
	assert.Equal(t, 401, request(t, app, "super-secreto"), "bare token without Bearer scheme is rejected")
	assert.Equal(t, 401, request(t, app, ""))
}

func TestCronAuthSignedToken(t *testing.T) {
	app := cronApp("super-secreto")

	token, err := utils.GenerateCronToken("super-secreto", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 200, request(t, app, "Bearer "+token))

	expired, err := utils.GenerateCronToken("super-secreto", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 401, request(t, app, "Bearer "+expired))

	foreign, err := utils.GenerateCronToken("otro-secreto", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 401, request(t, app, "Bearer "+foreign))
}

func TestCronAuthRefusesWhenUnconfigured(t *testing.T) {
	// No configured secret means nobody gets in, not everybody.
	app := cronApp("")
	assert.Equal(t, 401, request(t, app, "Bearer "))
	assert.Equal(t, 401, request(t, app, "Bearer cualquiera"))
}
