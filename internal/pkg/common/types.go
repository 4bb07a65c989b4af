package common

import (
	"strconv"
	"strings"
)

// 食譜分類
const (
	CategoryAll           = "All"
	CategoryVegetarian    = "Vegetarian"
	CategoryNonVegetarian = "Non-Vegetarian"
	CategorySweet         = "Sweet"
)

// Ingredient 食材
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional,omitempty"`
}

// Recipe 食譜，寫入後不再修改
type Recipe struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name" validate:"required"`
	Cuisine      string       `json:"cuisine"`
	Category     string       `json:"category"`
	PrepTime     int          `json:"prep_time" validate:"gte=0"`
	CookTime     int          `json:"cook_time" validate:"gte=0"`
	Servings     int          `json:"servings" validate:"gte=1"`
	Instructions []string     `json:"instructions" validate:"min=1,dive,required"`
	Ingredients  []Ingredient `json:"ingredients" validate:"dive"`
	ImageURL     string       `json:"image_url"`
}

// RecipeSummary 列表用的食譜摘要
type RecipeSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Cuisine  string `json:"cuisine"`
	Category string `json:"category"`
	PrepTime int    `json:"prep_time"`
	CookTime int    `json:"cook_time"`
	Servings int    `json:"servings"`
	ImageURL string `json:"image_url"`
}

// Summary 取得食譜摘要
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:       r.ID,
		Name:     r.Name,
		Cuisine:  r.Cuisine,
		Category: r.Category,
		PrepTime: r.PrepTime,
		CookTime: r.CookTime,
		Servings: r.Servings,
		ImageURL: r.ImageURL,
	}
}

// Clone 深複製食譜，避免呼叫端修改共享資料
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Instructions = append([]string(nil), r.Instructions...)
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	return &out
}

// FormatQuantity 格式化數量，去除多餘的小數
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatIngredient 格式化為 "數量 單位 名稱"，單位為空時省略
func FormatIngredient(ing Ingredient) string {
	parts := []string{FormatQuantity(ing.Quantity)}
	if unit := strings.TrimSpace(ing.Unit); unit != "" {
		parts = append(parts, unit)
	}
	parts = append(parts, ing.Name)
	return strings.Join(parts, " ")
}

// IngredientSliceToString 將食材切片轉換為逗號分隔的字符串
func IngredientSliceToString(ingredients []Ingredient) string {
	if len(ingredients) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		part := FormatIngredient(ing)
		if ing.Optional {
			part += " (optional)"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// FormatIngredientList 格式化為多行清單
func FormatIngredientList(ingredients []Ingredient) string {
	var sb strings.Builder
	for i, ing := range ingredients {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(FormatIngredient(ing))
	}
	return sb.String()
}
