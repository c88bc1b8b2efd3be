package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var decoded APIResponse
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp, decoded
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	resp, decoded := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", map[string]string{"key": "value"})
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, decoded.Success)
	require.Equal(t, "success", decoded.Message)
	require.NotNil(t, decoded.Data)
}

func TestSendSuccessWithStatus(t *testing.T) {
	resp, decoded := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, decoded.Success)
	require.Equal(t, "created", decoded.Message)
}

func TestSendError(t *testing.T) {
	resp, decoded := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusNotFound, "missing")
	})

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.False(t, decoded.Success)
	require.Equal(t, "missing", decoded.Message)
	require.Empty(t, decoded.Data)
}
