package nlu

import (
	"sort"
	"strings"
)

// IngredientTerms 常見食材詞，實體文字包含其一即視為食材
var IngredientTerms = []string{
	"sugar", "salt", "flour", "milk", "water", "butter", "eggs", "chicken",
	"rice", "carrots", "peas", "beans", "pasta", "peppers", "zucchini",
	"broccoli", "tomatoes", "pesto",
}

// foodWords 標為 FOOD 的單字
var foodWords = []string{
	"avocado", "bacon", "banana", "basil", "bread", "broth", "cheese", "chickpeas",
	"cilantro", "cinnamon", "cream", "cucumber", "egg", "feta", "garlic", "ginger",
	"honey", "lemon", "lentils", "lettuce", "lime", "mayonnaise", "mozzarella",
	"mushrooms", "noodles", "oats", "oil", "onion", "onions", "oregano", "parmesan",
	"parsley", "pepper", "potatoes", "quinoa", "salmon", "shrimp", "spinach",
	"tofu", "tomato", "tortillas", "tuna", "vanilla", "vinegar", "yogurt",
	"beef", "carrot", "chocolate", "celery", "corn", "cumin", "paprika",
	"olive oil", "soy sauce", "baking powder", "baking soda", "brown sugar",
	"heavy cream", "black pepper", "bell pepper", "bell peppers", "black beans",
	"chicken breast", "chicken broth", "vegetable broth", "coconut milk",
}

// RecipeNameFragments 已知的菜名片段，標為 WORK_OF_ART
var RecipeNameFragments = []string{
	"scrambled eggs", "chicken curry", "vegetable pulao", "pasta primavera", "tomato soup",
	"guacamole", "stir fry", "lentil soup", "baked salmon", "pancakes", "vegetarian chili",
	"caprese salad", "garlic shrimp", "quinoa salad", "chocolate chip cookies", "beef tacos",
	"mushroom risotto", "french toast", "chicken noodle soup", "spaghetti carbonara", "oatmeal",
	"homemade pizza", "roasted chicken", "black bean burgers", "greek salad", "beef and broccoli",
	"minestrone soup", "crispy chicken thighs", "pesto chicken sandwich", "avocado toast",
	"beef stew", "chicken quesadillas", "vegetable frittata", "garden salad", "grilled cheese",
	"hummus wraps", "tuna sandwich", "chicken skewers", "black bean soup", "spinach omelette",
	"teriyaki chicken", "lentil pie", "chicken caesar salad", "green curry", "mac and cheese",
	"chicken fajitas", "tomato pasta", "chicken and rice soup", "pot roast", "chicken pad thai",
	"veggie burgers", "chicken lettuce wraps", "creamy tomato soup", "chicken enchiladas",
	"spinach salad", "stuffed bell peppers", "baked ziti", "chicken tenders", "shrimp scampi",
	"tomato cucumber salad", "breakfast burritos", "fried rice", "cream of mushroom soup",
	"chicken blt", "roasted vegetable medley", "coleslaw", "chicken alfredo",
	"spicy black bean tacos", "breakfast smoothie", "bruschetta", "chicken soup with vegetables",
}

type phrase struct {
	words []string
	label string
}

// Gazetteer 以詞典比對標註實體
type Gazetteer struct {
	phrases []phrase
}

// NewGazetteer 建立詞典，菜名優先於食材，長詞優先於短詞
func NewGazetteer(recipeNames, foods []string) *Gazetteer {
	g := &Gazetteer{}
	g.add(recipeNames, LabelWorkOfArt)
	g.add(foods, LabelFood)
	sort.SliceStable(g.phrases, func(i, j int) bool {
		a, b := g.phrases[i], g.phrases[j]
		if a.label != b.label {
			return a.label == LabelWorkOfArt
		}
		return len(a.words) > len(b.words)
	})
	return g
}

// DefaultGazetteer 內建菜名與食材
func DefaultGazetteer() *Gazetteer {
	foods := make([]string, 0, len(IngredientTerms)+len(foodWords))
	foods = append(foods, IngredientTerms...)
	foods = append(foods, foodWords...)
	return NewGazetteer(RecipeNameFragments, foods)
}

func (g *Gazetteer) add(items []string, label string) {
	for _, item := range items {
		words := strings.Fields(strings.ToLower(item))
		if len(words) == 0 {
			continue
		}
		g.phrases = append(g.phrases, phrase{words: words, label: label})
	}
}

// Match 在詞元序列中找出不重疊的詞典實體
func (g *Gazetteer) Match(tokens []Token) []Entity {
	if g == nil || len(tokens) == 0 {
		return nil
	}

	used := make([]bool, len(tokens))
	var out []Entity

	for _, p := range g.phrases {
		for i := 0; i+len(p.words) <= len(tokens); i++ {
			if !g.matchAt(tokens, used, i, p.words) {
				continue
			}
			texts := make([]string, len(p.words))
			for j := range p.words {
				used[i+j] = true
				texts[j] = tokens[i+j].Text
			}
			out = append(out, Entity{
				Text:  strings.Join(texts, " "),
				Label: p.label,
				Start: i,
				End:   i + len(p.words),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (g *Gazetteer) matchAt(tokens []Token, used []bool, start int, words []string) bool {
	for j, w := range words {
		if used[start+j] || tokens[start+j].Lower != w {
			return false
		}
	}
	return true
}
