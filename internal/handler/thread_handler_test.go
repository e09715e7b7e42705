package handler_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/handler"
)

func newThreadTestApp(threads *mockThreadService, userID string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/threads", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewThreadHandler(threads, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestThreadHandler_Create(t *testing.T) {
	threads := &mockThreadService{created: dto.ThreadResponse{ID: 1, Title: "Welcome"}}
	app := newThreadTestApp(threads, "sub-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/threads/", bytes.NewReader([]byte(`{"title":"Welcome"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "sub-1", threads.lastUserID)

	var response struct {
		Data dto.ThreadResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "Welcome", response.Data.Title)
}

func TestThreadHandler_CreateRequiresAuthentication(t *testing.T) {
	app := newThreadTestApp(&mockThreadService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/threads/", bytes.NewReader([]byte(`{"title":"Welcome"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestThreadHandler_GetIncludePosts(t *testing.T) {
	threads := &mockThreadService{thread: dto.ThreadResponse{ID: 4, Title: "Deep dive"}}
	app := newThreadTestApp(threads, "sub-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/threads/4?include_posts=true", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, threads.lastIncludePosts)
}

func TestThreadHandler_GetMissing(t *testing.T) {
	threads := &mockThreadService{threadErr: gorm.ErrRecordNotFound}
	app := newThreadTestApp(threads, "sub-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/threads/99", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestThreadHandler_SummarizeReportsAvailability(t *testing.T) {
	threads := &mockThreadService{summary: dto.SummaryResponse{Summary: "Three posts about caching.", Available: true}}
	app := newThreadTestApp(threads, "sub-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/threads/4/summarize", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Message string              `json:"message"`
		Data    dto.SummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "thread summarized", response.Message)
	require.True(t, response.Data.Available)
}
