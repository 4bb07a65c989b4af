// Package assistant 負責指令意圖判斷、對話回應與生成式備援的協調
package assistant

import (
	"context"

	"cooking-assistant/internal/pkg/common"
)

// Intent 指令意圖
type Intent string

// 意圖清單
const (
	IntentNextStep          Intent = "next_step"
	IntentRepeatStep        Intent = "repeat_step"
	IntentListIngredients   Intent = "list_ingredients"
	IntentGreeting          Intent = "greeting"
	IntentGetQuantity       Intent = "get_quantity"
	IntentSetTimer          Intent = "set_timer"
	IntentLoadRecipe        Intent = "load_recipe"
	IntentBackToList        Intent = "back_to_list"
	IntentShowAll           Intent = "show_all_recipes"
	IntentShowVegetarian    Intent = "show_vegetarian"
	IntentShowNonVegetarian Intent = "show_non_vegetarian"
	IntentShowSweet         Intent = "show_sweet"
	IntentUnknown           Intent = "unknown"
)

func (i Intent) String() string {
	return string(i)
}

// Action 前端要執行的動作
type Action string

// 動作名稱與前端一致
const (
	ActionNone       Action = ""
	ActionNextStep   Action = "next_step"
	ActionRepeatStep Action = "repeat_step"
	ActionLoadRecipe Action = "load_recipe_id"
	ActionShowList   Action = "show_recipe_list"
	ActionFilter     Action = "filter_recipes"
)

// 回應來源
const (
	SourceNLU   = "nlu"
	SourceLLM   = "llm"
	SourceError = "error"
)

// 計時單位
const (
	UnitMinutes = "minutes"
	UnitSeconds = "seconds"
)

// Session 單次請求的對話情境
type Session struct {
	Recipe    *common.Recipe
	StepIndex int
}

// HasRecipe 是否已載入食譜
func (s Session) HasRecipe() bool {
	return s.Recipe != nil
}

// Entities 從指令中擷取的實體
type Entities struct {
	Ingredient     string
	TimerValue     *float64
	TimerUnit      string
	RecipeFragment string
	Category       string
}

// Classification 意圖判斷結果
type Classification struct {
	Intent   Intent
	Entities Entities
	Rule     string
}

// Timer 計時器內容，實際計時由前端負責
type Timer struct {
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Seconds float64 `json:"seconds"`
}

// Response 對話回應
type Response struct {
	Text     string
	Action   Action
	RecipeID *int64
	Category string
	Intent   Intent
	Timer    *Timer
	Source   string
}

// Command 一次指令請求
type Command struct {
	Text      string
	StepIndex int
	RecipeID  *int64
}

// Recipes 對話所需的食譜查詢
type Recipes interface {
	Get(ctx context.Context, id int64) (*common.Recipe, error)
	FindByName(ctx context.Context, fragment string) (*common.Recipe, error)
}

// Fallback 生成式備援，必須永遠回傳文字
type Fallback interface {
	Ask(ctx context.Context, command string, recipe *common.Recipe, stepIndex int) string
}
