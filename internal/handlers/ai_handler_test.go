package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"moneta/internal/ai"
	"moneta/internal/ledger"
	"moneta/internal/models"
)

type stubGenerator struct {
	response string
	prompt   string
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.response, nil
}

func setupAIRouter(handler *AIHandler) *gin.Engine {
	r := gin.New()
	r.POST("/ai/parse", injectUserID("u1"), handler.ParseTransaction)
	return r
}

func categoryServiceWithTitles(titles ...string) *mockCategoryService {
	members := make([]models.Category, len(titles))
	for i, title := range titles {
		members[i] = models.Category{Title: title}
	}
	return &mockCategoryService{
		groupsByTypeFn: func(userID string, categoryType models.CategoryType) ([]ledger.CategoryGroup, error) {
			if categoryType != models.CategoryTypeExpense {
				return nil, nil
			}
			return []ledger.CategoryGroup{{Type: categoryType, Members: members}}, nil
		},
	}
}

func TestAIHandler_ParseTransaction(t *testing.T) {
	t.Run("returns parsed transaction", func(t *testing.T) {
		gen := &stubGenerator{
			response: `{"type":"outflow","amount":12.5,"description":"coffee","category_title":"Food"}`,
		}
		handler := NewAIHandler(ai.NewParser(gen), categoryServiceWithTitles("Food", "Transport"))
		r := setupAIRouter(handler)

		rec := doRequest(r, "POST", "/ai/parse", `{"text":"coffee 12.50"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		parsed, ok := result["parsed"].(map[string]interface{})
		if !ok || parsed["category_title"] != "Food" {
			t.Errorf("unexpected response: %v", result)
		}
		if !strings.Contains(gen.prompt, "Transport") {
			t.Error("expected user categories in the prompt")
		}
	})

	t.Run("returns 503 when parser not configured", func(t *testing.T) {
		handler := NewAIHandler(nil, categoryServiceWithTitles())
		r := setupAIRouter(handler)

		rec := doRequest(r, "POST", "/ai/parse", `{"text":"coffee 12.50"}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PARSER_UNAVAILABLE")
	})

	t.Run("rejects empty text", func(t *testing.T) {
		gen := &stubGenerator{response: `{}`}
		handler := NewAIHandler(ai.NewParser(gen), categoryServiceWithTitles())
		r := setupAIRouter(handler)

		rec := doRequest(r, "POST", "/ai/parse", `{"text":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 422 on unusable model output", func(t *testing.T) {
		gen := &stubGenerator{response: "cannot help with that"}
		handler := NewAIHandler(ai.NewParser(gen), categoryServiceWithTitles("Food"))
		r := setupAIRouter(handler)

		rec := doRequest(r, "POST", "/ai/parse", `{"text":"coffee 12.50"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "UNPARSABLE_INPUT")
	})
}
