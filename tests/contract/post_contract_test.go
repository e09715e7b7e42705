package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/handler"
)

type stubModerationService struct {
	response dto.PostCreateResponse
}

func (s stubModerationService) EvaluateContent(context.Context, string) float64 { return 0 }

func (s stubModerationService) DecideFlag(float64) bool { return false }

func (s stubModerationService) CreatePost(context.Context, string, dto.PostCreateRequest) (dto.PostCreateResponse, error) {
	return s.response, nil
}

func (s stubModerationService) ReportPost(context.Context, uint, string, dto.FlagReportRequest) (dto.FlagResponse, error) {
	return dto.FlagResponse{}, nil
}

func (s stubModerationService) ReviewFlag(context.Context, uint, string) (dto.FlagResponse, error) {
	return dto.FlagResponse{}, nil
}

func (s stubModerationService) ListFlags(context.Context, string, int, int) ([]dto.FlagResponse, error) {
	return nil, nil
}

type stubThreadService struct{}

func (stubThreadService) List(context.Context, int, int) ([]dto.ThreadResponse, error) {
	return nil, nil
}

func (stubThreadService) Get(context.Context, uint, bool) (dto.ThreadResponse, error) {
	return dto.ThreadResponse{}, nil
}

func (stubThreadService) Create(context.Context, string, dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	return dto.ThreadResponse{}, nil
}

func (stubThreadService) ListPosts(context.Context, uint, int, int) ([]dto.PostResponse, error) {
	return nil, nil
}

func (stubThreadService) SummarizeThread(context.Context, uint) (dto.SummaryResponse, error) {
	return dto.SummaryResponse{}, nil
}

func (stubThreadService) SummarizePost(context.Context, uint) (dto.SummaryResponse, error) {
	return dto.SummaryResponse{}, nil
}

func TestPostCreateContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "post_create.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	svc := stubModerationService{response: dto.PostCreateResponse{
		Post: dto.PostResponse{
			ID:            15,
			ThreadID:      3,
			AuthorID:      "sub-1",
			Content:       "This thread is awful and everyone in it is terrible.",
			Sentiment:     "negative",
			ToxicityScore: 0.91,
			IsFlagged:     true,
			CreatedAt:     time.Now().UTC(),
		},
		Flagged: true,
	}}

	handler := handler.NewPostHandler(svc, stubThreadService{}, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/posts", func(c *fiber.Ctx) error {
		c.Locals("user_id", "sub-1")
		return c.Next()
	})
	handler.Register(group)

	body := []byte(`{"thread_id":3,"content":"This thread is awful and everyone in it is terrible."}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.NoError(t, schema.Validate(payload))
}
