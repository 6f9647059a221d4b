package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-chatbot-be/internal/bootstrap"
	"course-chatbot-be/internal/config"
	"course-chatbot-be/internal/controller"
	"course-chatbot-be/pkg/nonce"
)

func TestHealthEndpoint(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{CorsAllowedOrigins: "*", Port: "0"}}
	container := &bootstrap.Container{
		ChatController: controller.NewChatController(nil, nonce.NewIssuer("test-secret")),
	}

	srv := New(cfg, container)
	resp, err := srv.GetApp().Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ok", out["status"])

	ts, ok := out["timestamp"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}
