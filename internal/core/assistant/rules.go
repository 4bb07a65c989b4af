package assistant

import (
	"strings"
	"unicode"
)

// Rule 關鍵字規則
type Rule struct {
	Name   string
	Intent Intent
	Match  func(text string) bool
}

// Rules 依優先順序排列，第一個符合者勝出
//
// show_non_vegetarian 排在 show_vegetarian 之前，
// 否則 "non-vegetarian recipes" 會被 "vegetarian recipes" 先吃掉。
var Rules = []Rule{
	{Name: "next_step", Intent: IntentNextStep, Match: containsAny("next step", "what's next", "move on")},
	{Name: "repeat_step", Intent: IntentRepeatStep, Match: containsAny("repeat", "say again", "what was that")},
	{Name: "list_ingredients", Intent: IntentListIngredients, Match: containsAny("ingredients", "what do i need", "list ingredients")},
	{Name: "greeting", Intent: IntentGreeting, Match: hasWord("hello", "hi", "hey")},
	{Name: "get_quantity", Intent: IntentGetQuantity, Match: containsAny("how much", "how many")},
	{Name: "set_timer", Intent: IntentSetTimer, Match: containsAny("set timer", "start timer", "set a timer", "start a timer")},
	{Name: "load_recipe", Intent: IntentLoadRecipe, Match: allOf(containsAny("recipe"), containsAny("load", "switch to"))},
	{Name: "back_to_list", Intent: IntentBackToList, Match: containsAny("go back", "back to recipes")},
	{Name: "show_all", Intent: IntentShowAll, Match: containsAny("show all", "all recipes")},
	{Name: "show_non_vegetarian", Intent: IntentShowNonVegetarian, Match: allOf(
		containsAny("non-vegetarian", "non vegetarian", "nonvegetarian"),
		containsAny("show", "recipe"),
	)},
	{Name: "show_vegetarian", Intent: IntentShowVegetarian, Match: containsAny("show vegetarian", "vegetarian recipes")},
	{Name: "show_sweet", Intent: IntentShowSweet, Match: containsAny("show sweet", "sweet recipes", "dessert recipes")},
}

// MatchRule 回傳第一個符合的規則
func MatchRule(text string) (Rule, bool) {
	for _, r := range Rules {
		if r.Match(text) {
			return r, true
		}
	}
	return Rule{}, false
}

func containsAny(phrases ...string) func(string) bool {
	return func(text string) bool {
		for _, p := range phrases {
			if strings.Contains(text, p) {
				return true
			}
		}
		return false
	}
}

// hasWord 整字比對，避免 "hi" 命中 "chicken"
func hasWord(words ...string) func(string) bool {
	return func(text string) bool {
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return !unicode.IsLetter(r) && r != '\''
		})
		for _, f := range fields {
			for _, w := range words {
				if f == w {
					return true
				}
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(text string) bool {
		for _, p := range preds {
			if !p(text) {
				return false
			}
		}
		return true
	}
}
