package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/handler"
	"github.com/agora-labs/agora-api/internal/service"
)

type mockModerationService struct {
	createResponse dto.PostCreateResponse
	createErr      error
	lastAuthor     string
	lastPayload    dto.PostCreateRequest

	reportResponse dto.FlagResponse
	reportErr      error

	reviewResponse dto.FlagResponse
	reviewErr      error
	lastDecision   string

	flags    []dto.FlagResponse
	flagsErr error
}

func (m *mockModerationService) EvaluateContent(_ context.Context, _ string) float64 { return 0 }

func (m *mockModerationService) DecideFlag(score float64) bool {
	return score > service.DefaultToxicityFlagThreshold
}

func (m *mockModerationService) CreatePost(_ context.Context, authorID string, payload dto.PostCreateRequest) (dto.PostCreateResponse, error) {
	m.lastAuthor = authorID
	m.lastPayload = payload
	return m.createResponse, m.createErr
}

func (m *mockModerationService) ReportPost(_ context.Context, _ uint, _ string, _ dto.FlagReportRequest) (dto.FlagResponse, error) {
	return m.reportResponse, m.reportErr
}

func (m *mockModerationService) ReviewFlag(_ context.Context, _ uint, decision string) (dto.FlagResponse, error) {
	m.lastDecision = decision
	return m.reviewResponse, m.reviewErr
}

func (m *mockModerationService) ListFlags(_ context.Context, _ string, _, _ int) ([]dto.FlagResponse, error) {
	return m.flags, m.flagsErr
}

type mockThreadService struct {
	threads    []dto.ThreadResponse
	thread     dto.ThreadResponse
	threadErr  error
	created    dto.ThreadResponse
	createErr  error
	posts      []dto.PostResponse
	postsErr   error
	summary    dto.SummaryResponse
	summaryErr error

	lastUserID       string
	lastIncludePosts bool
}

func (m *mockThreadService) List(_ context.Context, _, _ int) ([]dto.ThreadResponse, error) {
	return m.threads, nil
}

func (m *mockThreadService) Get(_ context.Context, _ uint, includePosts bool) (dto.ThreadResponse, error) {
	m.lastIncludePosts = includePosts
	return m.thread, m.threadErr
}

func (m *mockThreadService) Create(_ context.Context, userID string, _ dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	m.lastUserID = userID
	return m.created, m.createErr
}

func (m *mockThreadService) ListPosts(_ context.Context, _ uint, _, _ int) ([]dto.PostResponse, error) {
	return m.posts, m.postsErr
}

func (m *mockThreadService) SummarizeThread(_ context.Context, _ uint) (dto.SummaryResponse, error) {
	return m.summary, m.summaryErr
}

func (m *mockThreadService) SummarizePost(_ context.Context, _ uint) (dto.SummaryResponse, error) {
	return m.summary, m.summaryErr
}

func newPostTestApp(moderation *mockModerationService, threads *mockThreadService, userID string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/posts", func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewPostHandler(moderation, threads, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestPostHandler_CreateReturnsModerationOutcome(t *testing.T) {
	moderation := &mockModerationService{
		createResponse: dto.PostCreateResponse{
			Post:    dto.PostResponse{ID: 5, ThreadID: 1, AuthorID: "sub-1", Content: "hi", ToxicityScore: 0.9, IsFlagged: true},
			Flagged: true,
		},
	}
	app := newPostTestApp(moderation, &mockThreadService{}, "sub-1")

	body, err := json.Marshal(dto.PostCreateRequest{ThreadID: 1, Content: "hi"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                   `json:"success"`
		Data    dto.PostCreateResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.True(t, response.Data.Flagged)
	require.Equal(t, uint(5), response.Data.Post.ID)
	require.Equal(t, "sub-1", moderation.lastAuthor)
}

func TestPostHandler_CreateRequiresAuthentication(t *testing.T) {
	app := newPostTestApp(&mockModerationService{}, &mockThreadService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/", bytes.NewReader([]byte(`{"thread_id":1,"content":"hi"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPostHandler_CreateCrossThreadParent(t *testing.T) {
	moderation := &mockModerationService{createErr: service.ErrCrossThreadParent}
	app := newPostTestApp(moderation, &mockThreadService{}, "sub-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/", bytes.NewReader([]byte(`{"thread_id":1,"parent_id":9,"content":"hi"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostHandler_ListRequiresThreadID(t *testing.T) {
	app := newPostTestApp(&mockModerationService{}, &mockThreadService{}, "sub-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostHandler_SummarizeUnavailable(t *testing.T) {
	threads := &mockThreadService{summary: dto.SummaryResponse{Available: false}}
	app := newPostTestApp(&mockModerationService{}, threads, "sub-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts/3/summarize", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Message string              `json:"message"`
		Data    dto.SummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "no summary available", response.Message)
	require.False(t, response.Data.Available)
}

func TestPostHandler_ReportCreatesFlag(t *testing.T) {
	moderation := &mockModerationService{reportResponse: dto.FlagResponse{ID: 2, PostID: 3, Status: "pending"}}
	app := newPostTestApp(moderation, &mockThreadService{}, "sub-2")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/3/report", bytes.NewReader([]byte(`{"reason":"harassment"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
