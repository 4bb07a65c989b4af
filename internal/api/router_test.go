package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cooking-assistant/internal/core/assistant"
	"cooking-assistant/internal/core/recipe"
	"cooking-assistant/internal/infrastructure/config"
	"cooking-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// stubFallback 固定回答的備援
type stubFallback struct{ answer string }

func (s stubFallback) Ask(context.Context, string, *common.Recipe, int) string {
	return s.answer
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Version: "test", Debug: true},
		Server: config.ServerConfig{
			RequestTimeout: time.Second,
			MaxBodyBytes:   1 << 10,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := recipe.NewMemoryStore()
	recipes := []common.Recipe{
		{Name: "Tomato Soup", Category: common.CategoryVegetarian, Servings: 2,
			Instructions: []string{"Chop tomatoes.", "Simmer.", "Blend."},
			Ingredients:  []common.Ingredient{{Name: "tomatoes", Quantity: 6, Unit: "whole"}}},
		{Name: "Apple Pie", Category: common.CategorySweet, Servings: 8,
			Instructions: []string{"Make crust.", "Bake."},
			Ingredients:  []common.Ingredient{{Name: "apples", Quantity: 5}}},
		{Name: "Beef Stew", Category: common.CategoryNonVegetarian, Servings: 4,
			Instructions: []string{"Brown beef.", "Stew."},
			Ingredients:  []common.Ingredient{{Name: "beef", Quantity: 500, Unit: "g"}}},
	}
	if _, err := recipe.Seed(context.Background(), store, recipes); err != nil {
		t.Fatalf("Seed error = %v", err)
	}

	a := assistant.New(store, nil, stubFallback{answer: "Use a lid."})
	return SetupRouter(cfg, Dependencies{Store: store, Assistant: a, AIOnline: true})
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetRecipe(t *testing.T) {
	r := newTestRouter(t, testConfig())

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/api/recipe/1", http.StatusOK},
		{"missing", "/api/recipe/42", http.StatusNotFound},
		{"not numeric", "/api/recipe/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}

	w := doRequest(r, http.MethodGet, "/api/recipe/42", "")
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Recipe not found" {
		t.Fatalf("error = %q", body["error"])
	}

	w = doRequest(r, http.MethodGet, "/api/recipe/1", "")
	var got common.Recipe
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Tomato Soup" || len(got.Instructions) != 3 {
		t.Fatalf("recipe = %+v", got)
	}
}

func TestListRecipes(t *testing.T) {
	r := newTestRouter(t, testConfig())

	tests := []struct {
		path  string
		names []string
	}{
		{"/api/recipes", []string{"Apple Pie", "Beef Stew", "Tomato Soup"}},
		{"/api/recipes_by_category?category=Vegetarian", []string{"Tomato Soup"}},
		{"/api/recipes_by_category?category=non-vegetarian", []string{"Beef Stew"}},
		{"/api/recipes_by_category?category=All", []string{"Apple Pie", "Beef Stew", "Tomato Soup"}},
		{"/api/recipes_by_category?category=Breakfast", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var list []common.RecipeSummary
			if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
				t.Fatalf("decode: %v (%s)", err, w.Body.String())
			}
			if list == nil {
				t.Fatal("empty result must encode as [] not null")
			}
			if len(list) != len(tt.names) {
				t.Fatalf("got %d recipes, want %d", len(list), len(tt.names))
			}
			for i, name := range tt.names {
				if list[i].Name != name {
					t.Fatalf("list[%d] = %s, want %s", i, list[i].Name, name)
				}
			}
		})
	}
}

func TestProcessCommand(t *testing.T) {
	r := newTestRouter(t, testConfig())

	tests := []struct {
		name       string
		body       string
		wantText   string
		wantAction any
	}{
		{"next step", `{"command":"Next Step","current_step":0,"recipe_id":1}`, "Simmer.", "next_step"},
		{"no action is null", `{"command":"hello"}`, assistant.TextGreeting, nil},
		{"load", `{"command":"load recipe apple pie","current_step":0,"recipe_id":null}`, "Switching to Apple Pie recipe.", "load_recipe_id"},
		{"filter", `{"command":"show sweet"}`, assistant.TextShowSweet, "filter_recipes"},
		{"fallback", `{"command":"how do i keep soup warm","recipe_id":1}`, "Use a lid.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/process_command", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["response"] != tt.wantText {
				t.Fatalf("response = %v, want %q", body["response"], tt.wantText)
			}
			action, present := body["action"]
			if !present {
				t.Fatal("action key must always be present")
			}
			if action != tt.wantAction {
				t.Fatalf("action = %v, want %v", action, tt.wantAction)
			}
		})
	}
}

func TestProcessCommandPayloads(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := doRequest(r, http.MethodPost, "/api/process_command", `{"command":"load recipe beef"}`)
	var load map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &load)
	if load["recipe_id"] != float64(3) {
		t.Fatalf("recipe_id = %v, want 3", load["recipe_id"])
	}

	w = doRequest(r, http.MethodPost, "/api/process_command", `{"command":"show non-vegetarian recipes"}`)
	var filter map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &filter)
	if filter["category"] != common.CategoryNonVegetarian {
		t.Fatalf("category = %v", filter["category"])
	}

	w = doRequest(r, http.MethodPost, "/api/process_command", `{"command":"set timer for 30 seconds"}`)
	var timer struct {
		Timer *assistant.Timer `json:"timer"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &timer)
	if timer.Timer == nil || timer.Timer.Seconds != 30 {
		t.Fatalf("timer = %+v", timer.Timer)
	}
}

func TestProcessCommandInvalidJSON(t *testing.T) {
	r := newTestRouter(t, testConfig())

	for _, body := range []string{`{"command":`, `not json`, ``} {
		w := doRequest(r, http.MethodPost, "/api/process_command", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestProcessCommandBodyTooLarge(t *testing.T) {
	r := newTestRouter(t, testConfig())

	big := `{"command":"` + strings.Repeat("a", 2<<10) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/process_command", bytes.NewBufferString(big))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestProcessCommandRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}
	r := newTestRouter(t, cfg)

	codes := make([]int, 0, 3)
	for _, cmd := range []string{"hello", "next step", "go back"} {
		w := doRequest(r, http.MethodPost, "/api/process_command", `{"command":"`+cmd+`"}`)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestProcessCommandDeduplication(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	r := newTestRouter(t, cfg)

	body := `{"command":"next step","current_step":0,"recipe_id":1}`
	if w := doRequest(r, http.MethodPost, "/api/process_command", body); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/api/process_command", body); w.Code != http.StatusTooManyRequests {
		t.Fatalf("duplicate status = %d, want 429", w.Code)
	}
	other := `{"command":"next step","current_step":1,"recipe_id":1}`
	if w := doRequest(r, http.MethodPost, "/api/process_command", other); w.Code != http.StatusOK {
		t.Fatalf("different body status = %d", w.Code)
	}
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doRequest(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}

	w := doRequest(r, http.MethodGet, "/ready", "")
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["recipes"] != float64(3) {
		t.Fatalf("ready body = %v", body)
	}

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatal("request id header missing")
	}
}
