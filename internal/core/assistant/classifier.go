package assistant

import (
	"context"
	"fmt"
	"strings"

	"cooking-assistant/internal/core/nlu"
	"cooking-assistant/internal/pkg/common"
)

// 詢問數量時不可能是食材的名詞
var quantityStopWords = map[string]bool{
	"much": true, "many": true, "amount": true, "quantity": true, "recipe": true,
	"recipes": true, "step": true, "i": true, "need": true, "use": true,
	"cups": true, "cup": true, "teaspoons": true, "tablespoons": true, "grams": true,
	"time": true, "minutes": true, "seconds": true, "thing": true, "things": true,
}

// 載入食譜時要略過的填充詞
var loadFillerWords = map[string]bool{
	"please": true, "assistant": true, "for": true, "me": true,
}

// load 與 recipe 之間可出現的詞
var loadGapWords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "up": true, "that": true, "this": true,
}

var quantityEntityLabels = []string{nlu.LabelProduct, nlu.LabelFood, nlu.LabelGPE, nlu.LabelOrg}

var recipeEntityLabels = []string{nlu.LabelProduct, nlu.LabelFood, nlu.LabelWorkOfArt, nlu.LabelEvent}

var categoryByIntent = map[Intent]string{
	IntentShowAll:           common.CategoryAll,
	IntentShowVegetarian:    common.CategoryVegetarian,
	IntentShowNonVegetarian: common.CategoryNonVegetarian,
	IntentShowSweet:         common.CategorySweet,
}

// Classifier 規則式意圖判斷
type Classifier struct {
	tagger nlu.Tagger
}

// NewClassifier 創建意圖判斷器
func NewClassifier(tagger nlu.Tagger) *Classifier {
	if tagger == nil {
		tagger = nlu.NewLexiconTagger(nil)
	}
	return &Classifier{tagger: tagger}
}

// Classify 判斷意圖並擷取實體
func (c *Classifier) Classify(ctx context.Context, command string, session Session) (Classification, error) {
	text := nlu.Normalize(command)
	if text == "" {
		return Classification{Intent: IntentUnknown}, nil
	}

	rule, ok := MatchRule(text)
	if !ok {
		return Classification{Intent: IntentUnknown}, nil
	}

	cls := Classification{Intent: rule.Intent, Rule: rule.Name}

	switch rule.Intent {
	case IntentGetQuantity, IntentSetTimer, IntentLoadRecipe:
		ann, err := c.tagger.Annotate(ctx, text)
		if err != nil {
			return cls, fmt.Errorf("failed to annotate command: %w", err)
		}
		switch rule.Intent {
		case IntentGetQuantity:
			cls.Entities.Ingredient = extractIngredient(ann, session.Recipe)
		case IntentSetTimer:
			cls.Entities.TimerValue, cls.Entities.TimerUnit = extractTimer(ann)
		case IntentLoadRecipe:
			cls.Entities.RecipeFragment = extractRecipeFragment(ann)
		}
	default:
		cls.Entities.Category = categoryByIntent[rule.Intent]
	}

	return cls, nil
}

// extractIngredient 食材實體優先，其次名詞（優先挑出現在目前食譜中的）
func extractIngredient(ann *nlu.Annotation, recipe *common.Recipe) string {
	for _, ent := range ann.Entities {
		if hasLabel(ent, quantityEntityLabels) || containsIngredientTerm(ent.Text) {
			return strings.ToLower(ent.Text)
		}
	}

	var first string
	for _, tok := range ann.Nouns() {
		if quantityStopWords[tok.Lower] || tok.LikeNum || tok.IsPunct {
			continue
		}
		if recipe != nil && findIngredient(recipe, tok.Lower) != nil {
			return tok.Lower
		}
		if first == "" {
			first = tok.Lower
		}
	}
	return first
}

// extractTimer 以最後出現的數字與最後出現的單位為準
func extractTimer(ann *nlu.Annotation) (*float64, string) {
	var value *float64
	var unit string
	for _, tok := range ann.Tokens {
		if tok.LikeNum {
			if v, ok := nlu.ParseNumber(tok.Text); ok {
				value = &v
			}
		}
		switch {
		case strings.Contains(tok.Lower, "minute"):
			unit = UnitMinutes
		case strings.Contains(tok.Lower, "second"):
			unit = UnitSeconds
		}
	}
	return value, unit
}

// extractRecipeFragment 取 "load ... recipe" 之後的文字，否則比對實體
func extractRecipeFragment(ann *nlu.Annotation) string {
	tokens := ann.Tokens

	for i, tok := range tokens {
		if tok.Lower != "recipe" || !governedByLoad(tokens, i) {
			continue
		}
		if fragment := joinWords(tokens[i+1:]); fragment != "" {
			return fragment
		}
	}

	if fragment := switchToFragment(tokens); fragment != "" {
		return fragment
	}

	for _, ent := range ann.Entities {
		if hasLabel(ent, recipeEntityLabels) || containsRecipeName(ent.Text) {
			return strings.ToLower(ent.Text)
		}
	}
	return ""
}

// governedByLoad "load" 出現在 recipe 之前，中間只有冠詞等詞
func governedByLoad(tokens []nlu.Token, recipeIdx int) bool {
	for j := recipeIdx - 1; j >= 0; j-- {
		switch {
		case tokens[j].Lower == "load":
			return true
		case loadGapWords[tokens[j].Lower]:
			continue
		default:
			return false
		}
	}
	return false
}

// switchToFragment 處理 "switch to X recipe" 與 "switch to recipe X"
func switchToFragment(tokens []nlu.Token) string {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Lower != "switch" || tokens[i+1].Lower != "to" {
			continue
		}
		rest := tokens[i+2:]
		for len(rest) > 0 && loadGapWords[rest[0].Lower] {
			rest = rest[1:]
		}
		if len(rest) > 0 && rest[0].Lower == "recipe" {
			return joinWords(rest[1:])
		}
		for j, tok := range rest {
			if tok.Lower == "recipe" || tok.Lower == "recipes" {
				return joinWords(rest[:j])
			}
		}
		return joinWords(rest)
	}
	return ""
}

func joinWords(tokens []nlu.Token) string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.IsPunct || loadFillerWords[t.Lower] {
			continue
		}
		words = append(words, t.Lower)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func hasLabel(ent nlu.Entity, labels []string) bool {
	for _, l := range labels {
		if ent.Label == l {
			return true
		}
	}
	return false
}

func containsIngredientTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range nlu.IngredientTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func containsRecipeName(text string) bool {
	lower := strings.ToLower(text)
	for _, name := range nlu.RecipeNameFragments {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}
