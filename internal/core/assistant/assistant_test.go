package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"cooking-assistant/internal/core/recipe"
	"cooking-assistant/internal/pkg/common"
)

// fakeFallback 記錄呼叫次數的備援
type fakeFallback struct {
	mu     sync.Mutex
	calls  int
	answer string
	recipe *common.Recipe
}

func (f *fakeFallback) Ask(_ context.Context, _ string, r *common.Recipe, _ int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.recipe = r
	return f.answer
}

func (f *fakeFallback) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// errorStore Get 永遠失敗
type errorStore struct{}

func (errorStore) Get(context.Context, int64) (*common.Recipe, error) {
	return nil, errors.New("connection refused")
}

func (errorStore) FindByName(context.Context, string) (*common.Recipe, error) {
	return nil, errors.New("connection refused")
}

// panicRecipes 觸發 panic
type panicRecipes struct{}

func (panicRecipes) Get(context.Context, int64) (*common.Recipe, error) {
	panic("boom")
}

func (panicRecipes) FindByName(context.Context, string) (*common.Recipe, error) {
	panic("boom")
}

func newTestAssistant(t *testing.T) (*Assistant, *fakeFallback) {
	t.Helper()
	store := recipe.NewMemoryStore()
	recipes := []common.Recipe{
		{
			Name:         "Scrambled Eggs",
			Category:     common.CategoryVegetarian,
			Servings:     1,
			Instructions: []string{"Crack the eggs.", "Whisk with milk.", "Cook gently."},
			Ingredients: []common.Ingredient{
				{Name: "eggs", Quantity: 2, Unit: "large"},
				{Name: "milk", Quantity: 1, Unit: "tbsp", Optional: true},
				{Name: "salt", Quantity: 0.25, Unit: "tsp"},
				{Name: "chives", Quantity: 1},
			},
		},
		{
			Name:         "Banana Pancakes",
			Category:     common.CategorySweet,
			Servings:     2,
			Instructions: []string{"Mash bananas.", "Fry."},
			Ingredients:  []common.Ingredient{{Name: "Banana", Quantity: 1, Unit: "ripe"}},
		},
	}
	if _, err := recipe.Seed(context.Background(), store, recipes); err != nil {
		t.Fatalf("Seed error = %v", err)
	}

	fb := &fakeFallback{answer: "Try margarine."}
	return New(store, NewClassifier(nil), fb), fb
}

func TestHandleResolvedIntents(t *testing.T) {
	a, fb := newTestAssistant(t)
	eggs := common.Int64Ptr(1)

	tests := []struct {
		name       string
		cmd        Command
		wantText   string
		wantAction Action
	}{
		{"next step advances", Command{Text: "next step", StepIndex: 0, RecipeID: eggs}, "Whisk with milk.", ActionNextStep},
		{"next at last step", Command{Text: "next step", StepIndex: 2, RecipeID: eggs}, TextLastStep, ActionNone},
		{"next past the end", Command{Text: "next step", StepIndex: 9, RecipeID: eggs}, TextLastStep, ActionNone},
		{"next negative index", Command{Text: "next step", StepIndex: -3, RecipeID: eggs}, "Whisk with milk.", ActionNextStep},
		{"next without recipe", Command{Text: "next step"}, TextNoRecipe, ActionNone},
		{"repeat", Command{Text: "repeat", StepIndex: 1, RecipeID: eggs}, "Whisk with milk.", ActionRepeatStep},
		{"repeat out of range", Command{Text: "repeat", StepIndex: 3, RecipeID: eggs}, TextNothingToRepeat, ActionNone},
		{"repeat without recipe", Command{Text: "say again"}, TextNothingToRepeat, ActionNone},
		{"ingredients", Command{Text: "list ingredients", RecipeID: eggs},
			"The ingredients for Scrambled Eggs are: 2 large eggs, 1 tbsp milk (optional), 0.25 tsp salt, 1 chives.", ActionNone},
		{"ingredients without recipe", Command{Text: "what do i need"}, TextNoIngredients, ActionNone},
		{"greeting", Command{Text: "hello"}, TextGreeting, ActionNone},
		{"quantity", Command{Text: "how much eggs", RecipeID: eggs}, "You need 2 large eggs for Scrambled Eggs.", ActionNone},
		{"quantity without unit", Command{Text: "how many chives", RecipeID: eggs}, "You need 1 chives for Scrambled Eggs.", ActionNone},
		{"quantity not listed", Command{Text: "how much sugar", RecipeID: eggs}, "I don't see sugar listed in this recipe.", ActionNone},
		{"quantity without recipe", Command{Text: "how much sugar"}, TextWhichIngredient, ActionNone},
		{"quantity without entity", Command{Text: "how much", RecipeID: eggs}, TextWhichIngredient, ActionNone},
		{"timer", Command{Text: "set timer for 10 minutes"}, "Okay, setting a timer for 10 minutes. I'll let you know when it's done!", ActionNone},
		{"timer without unit", Command{Text: "set timer for 10"}, "For how long should I set the timer for 10? (minutes or seconds?)", ActionNone},
		{"timer without value", Command{Text: "start timer"}, TextTimerHowLong, ActionNone},
		{"timer zero", Command{Text: "set timer for 0 minutes"}, TextTimerHowLong, ActionNone},
		{"load", Command{Text: "load recipe pancakes"}, "Switching to Banana Pancakes recipe.", ActionLoadRecipe},
		{"load unknown", Command{Text: "load recipe lasagna"}, "I can't find a recipe called lasagna. Please try a different recipe name.", ActionNone},
		{"load without name", Command{Text: "load recipe"}, TextWhichRecipe, ActionNone},
		{"back", Command{Text: "go back"}, TextBackToList, ActionShowList},
		{"show vegetarian", Command{Text: "show vegetarian recipes", RecipeID: eggs}, TextShowVegetarian, ActionFilter},
		{"show non vegetarian", Command{Text: "show non-vegetarian recipes"}, TextShowNonVegetarian, ActionFilter},
		{"show sweet", Command{Text: "show sweet"}, TextShowSweet, ActionFilter},
		{"show all", Command{Text: "show all"}, TextShowAll, ActionFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.Handle(context.Background(), tt.cmd)
			if resp.Text != tt.wantText {
				t.Fatalf("text = %q, want %q", resp.Text, tt.wantText)
			}
			if resp.Action != tt.wantAction {
				t.Fatalf("action = %q, want %q", resp.Action, tt.wantAction)
			}
			if resp.Source != SourceNLU {
				t.Fatalf("source = %q, want nlu", resp.Source)
			}
		})
	}

	if fb.Calls() != 0 {
		t.Fatalf("fallback called %d times for recognised intents", fb.Calls())
	}
}

func TestHandlePayloads(t *testing.T) {
	a, _ := newTestAssistant(t)
	ctx := context.Background()

	load := a.Handle(ctx, Command{Text: "load recipe scrambled eggs"})
	if load.RecipeID == nil || *load.RecipeID != 1 {
		t.Fatalf("recipe id = %v, want 1", load.RecipeID)
	}

	filter := a.Handle(ctx, Command{Text: "show vegetarian recipes"})
	if filter.Category != common.CategoryVegetarian {
		t.Fatalf("category = %q, want Vegetarian", filter.Category)
	}

	timer := a.Handle(ctx, Command{Text: "set timer for 2 minutes"})
	if timer.Timer == nil || timer.Timer.Seconds != 120 || timer.Timer.Unit != UnitMinutes {
		t.Fatalf("timer = %+v", timer.Timer)
	}

	if all := a.Handle(ctx, Command{Text: "show all recipes"}); all.Category != common.CategoryAll {
		t.Fatalf("category = %q, want All", all.Category)
	}
}

func TestHandleRepeatedNextAtLastStep(t *testing.T) {
	a, _ := newTestAssistant(t)
	for i := 0; i < 3; i++ {
		resp := a.Handle(context.Background(), Command{Text: "next step", StepIndex: 2, RecipeID: common.Int64Ptr(1)})
		if resp.Text != TextLastStep || resp.Action != ActionNone {
			t.Fatalf("call %d: got %q / %q", i, resp.Text, resp.Action)
		}
	}
}

func TestHandleQuantityCaseInsensitive(t *testing.T) {
	a, _ := newTestAssistant(t)
	resp := a.Handle(context.Background(), Command{Text: "how much banana", RecipeID: common.Int64Ptr(2)})
	if !strings.Contains(resp.Text, "1 ripe Banana") {
		t.Fatalf("text = %q", resp.Text)
	}
	resp = a.Handle(context.Background(), Command{Text: "How much EGGS", RecipeID: common.Int64Ptr(1)})
	if !strings.Contains(resp.Text, "2 large eggs") {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestHandleFallback(t *testing.T) {
	a, fb := newTestAssistant(t)

	resp := a.Handle(context.Background(), Command{Text: "tell me a joke", RecipeID: common.Int64Ptr(1)})
	if resp.Text != "Try margarine." || resp.Source != SourceLLM || resp.Action != ActionNone {
		t.Fatalf("resp = %+v", resp)
	}
	if fb.Calls() != 1 {
		t.Fatalf("fallback calls = %d, want 1", fb.Calls())
	}
	if fb.recipe == nil || fb.recipe.Name != "Scrambled Eggs" {
		t.Fatal("fallback did not receive the loaded recipe")
	}
}

func TestHandleUnknownRecipeIDBehavesAsNoRecipe(t *testing.T) {
	a, fb := newTestAssistant(t)

	resp := a.Handle(context.Background(), Command{Text: "next step", RecipeID: common.Int64Ptr(99)})
	if resp.Text != TextNoRecipe {
		t.Fatalf("text = %q", resp.Text)
	}

	a.Handle(context.Background(), Command{Text: "what now?", RecipeID: common.Int64Ptr(99)})
	if fb.recipe != nil {
		t.Fatal("fallback should see no recipe for an unknown id")
	}
}

func TestHandleWithoutFallbackIsOffline(t *testing.T) {
	a := New(recipe.NewMemoryStore(), nil, nil)
	resp := a.Handle(context.Background(), Command{Text: "what's a good substitute for butter"})
	if resp.Text != TextOffline {
		t.Fatalf("text = %q, want offline message", resp.Text)
	}
}

func TestHandleStoreErrors(t *testing.T) {
	fb := &fakeFallback{answer: "ok"}
	a := New(errorStore{}, nil, fb)

	resp := a.Handle(context.Background(), Command{Text: "next step", RecipeID: common.Int64Ptr(1)})
	if resp.Text != TextNoRecipe {
		t.Fatalf("text = %q", resp.Text)
	}

	resp = a.Handle(context.Background(), Command{Text: "load recipe soup"})
	if !strings.HasPrefix(resp.Text, "I can't find a recipe called soup") {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestHandleRecoversFromPanic(t *testing.T) {
	a := New(panicRecipes{}, nil, &fakeFallback{answer: "ok"})
	resp := a.Handle(context.Background(), Command{Text: "next step", RecipeID: common.Int64Ptr(1)})
	if resp.Text != TextGenericFailure || resp.Source != SourceError {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestHandleClassifierError(t *testing.T) {
	a := New(recipe.NewMemoryStore(), NewClassifier(failingTagger{}), &fakeFallback{answer: "ok"})
	resp := a.Handle(context.Background(), Command{Text: "how much salt"})
	if resp.Text != TextGenericFailure {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestHandleEmptyFallbackAnswer(t *testing.T) {
	a := New(recipe.NewMemoryStore(), nil, &fakeFallback{})
	resp := a.Handle(context.Background(), Command{Text: "tell me something"})
	if resp.Text == "" {
		t.Fatal("response text must never be empty")
	}
}
