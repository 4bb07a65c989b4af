package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cooking-assistant/internal/pkg/common"
)

// 固定回應文字
const (
	TextLastStep          = "You are at the last step of the recipe!"
	TextNoRecipe          = "No recipe is currently loaded."
	TextNothingToRepeat   = "No step to repeat, or no recipe loaded."
	TextNoIngredients     = "No ingredients loaded for this recipe."
	TextGreeting          = "Hello there! How can I help you with your cooking today?"
	TextWhichIngredient   = "Which ingredient are you asking about?"
	TextTimerHowLong      = "For how long should I set the timer?"
	TextWhichRecipe       = "Which recipe would you like to load? Say 'Load recipe [name]'."
	TextBackToList        = "Going back to the recipe list."
	TextShowAll           = "Showing all recipes."
	TextShowVegetarian    = "Showing vegetarian recipes."
	TextShowNonVegetarian = "Showing non-vegetarian recipes."
	TextShowSweet         = "Showing sweet recipes."
	TextGenericFailure    = "Sorry, something went wrong while processing your command."
)

var filterTexts = map[Intent]string{
	IntentShowAll:           TextShowAll,
	IntentShowVegetarian:    TextShowVegetarian,
	IntentShowNonVegetarian: TextShowNonVegetarian,
	IntentShowSweet:         TextShowSweet,
}

// Resolver 依意圖與情境產生回應
type Resolver struct {
	recipes Recipes
}

// NewResolver 創建回應產生器
func NewResolver(recipes Recipes) *Resolver {
	return &Resolver{recipes: recipes}
}

// Resolve 產生回應，intent 為 unknown 時回傳空回應
func (r *Resolver) Resolve(ctx context.Context, cls Classification, session Session) Response {
	resp := Response{Intent: cls.Intent}

	switch cls.Intent {
	case IntentNextStep:
		r.nextStep(&resp, session)
	case IntentRepeatStep:
		r.repeatStep(&resp, session)
	case IntentListIngredients:
		if session.HasRecipe() && len(session.Recipe.Ingredients) > 0 {
			resp.Text = fmt.Sprintf("The ingredients for %s are: %s.",
				session.Recipe.Name, common.IngredientSliceToString(session.Recipe.Ingredients))
		} else {
			resp.Text = TextNoIngredients
		}
	case IntentGreeting:
		resp.Text = TextGreeting
	case IntentGetQuantity:
		r.quantity(&resp, cls.Entities, session)
	case IntentSetTimer:
		r.timer(&resp, cls.Entities)
	case IntentLoadRecipe:
		r.loadRecipe(ctx, &resp, cls.Entities)
	case IntentBackToList:
		resp.Action = ActionShowList
		resp.Text = TextBackToList
	case IntentShowAll, IntentShowVegetarian, IntentShowNonVegetarian, IntentShowSweet:
		resp.Action = ActionFilter
		resp.Category = categoryByIntent[cls.Intent]
		resp.Text = filterTexts[cls.Intent]
	}

	return resp
}

// nextStep 超出範圍的索引夾回 [0, len-1]
func (r *Resolver) nextStep(resp *Response, session Session) {
	if !session.HasRecipe() {
		resp.Text = TextNoRecipe
		return
	}

	steps := session.Recipe.Instructions
	idx := session.StepIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(steps)-1 {
		idx = len(steps) - 1
	}

	if idx < len(steps)-1 {
		resp.Action = ActionNextStep
		resp.Text = steps[idx+1]
		return
	}
	resp.Text = TextLastStep
}

func (r *Resolver) repeatStep(resp *Response, session Session) {
	if !session.HasRecipe() {
		resp.Text = TextNothingToRepeat
		return
	}
	steps := session.Recipe.Instructions
	if session.StepIndex < 0 || session.StepIndex >= len(steps) {
		resp.Text = TextNothingToRepeat
		return
	}
	resp.Action = ActionRepeatStep
	resp.Text = steps[session.StepIndex]
}

func (r *Resolver) quantity(resp *Response, entities Entities, session Session) {
	name := strings.TrimSpace(entities.Ingredient)
	if name == "" || !session.HasRecipe() || len(session.Recipe.Ingredients) == 0 {
		resp.Text = TextWhichIngredient
		return
	}

	ing := findIngredient(session.Recipe, name)
	if ing == nil {
		resp.Text = fmt.Sprintf("I don't see %s listed in this recipe.", name)
		return
	}
	resp.Text = fmt.Sprintf("You need %s for %s.", common.FormatIngredient(*ing), session.Recipe.Name)
}

func (r *Resolver) timer(resp *Response, entities Entities) {
	// 0 視為沒有時間
	if entities.TimerValue == nil || *entities.TimerValue <= 0 {
		resp.Text = TextTimerHowLong
		return
	}

	value := *entities.TimerValue
	if entities.TimerUnit == "" {
		resp.Text = fmt.Sprintf("For how long should I set the timer for %s? (minutes or seconds?)", common.FormatQuantity(value))
		return
	}

	seconds := value
	if entities.TimerUnit == UnitMinutes {
		seconds = value * 60
	}
	resp.Timer = &Timer{Value: value, Unit: entities.TimerUnit, Seconds: seconds}
	resp.Text = fmt.Sprintf("Okay, setting a timer for %s %s. I'll let you know when it's done!",
		common.FormatQuantity(value), entities.TimerUnit)
}

func (r *Resolver) loadRecipe(ctx context.Context, resp *Response, entities Entities) {
	fragment := strings.TrimSpace(entities.RecipeFragment)
	if fragment == "" {
		resp.Text = TextWhichRecipe
		return
	}

	var found *common.Recipe
	var err error
	if r.recipes != nil {
		found, err = r.recipes.FindByName(ctx, fragment)
	} else {
		err = common.ErrNotFound
	}
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("查詢食譜失敗", zap.String("fragment", fragment), zap.Error(err))
		}
		resp.Text = fmt.Sprintf("I can't find a recipe called %s. Please try a different recipe name.", fragment)
		return
	}

	id := found.ID
	resp.Action = ActionLoadRecipe
	resp.RecipeID = &id
	resp.Text = fmt.Sprintf("Switching to %s recipe.", found.Name)
}

// findIngredient 不分大小寫的子字串比對，先找名稱包含查詢字的食材
func findIngredient(recipe *common.Recipe, name string) *common.Ingredient {
	needle := strings.ToLower(strings.TrimSpace(name))
	if recipe == nil || needle == "" {
		return nil
	}
	for i := range recipe.Ingredients {
		if strings.Contains(strings.ToLower(recipe.Ingredients[i].Name), needle) {
			return &recipe.Ingredients[i]
		}
	}
	for i := range recipe.Ingredients {
		ingName := strings.ToLower(strings.TrimSpace(recipe.Ingredients[i].Name))
		if ingName != "" && strings.Contains(needle, ingName) {
			return &recipe.Ingredients[i]
		}
	}
	return nil
}
