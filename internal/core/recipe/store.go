package recipe

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"cooking-assistant/internal/pkg/common"
)

// Store 食譜儲存介面
type Store interface {
	// Get 依 id 取得食譜，不存在時回傳 common.ErrNotFound
	Get(ctx context.Context, id int64) (*common.Recipe, error)
	// List 列出食譜摘要，category 為空或 "all" 時不過濾，依名稱排序
	List(ctx context.Context, category string) ([]common.RecipeSummary, error)
	// FindByName 名稱子字串比對（不分大小寫）
	FindByName(ctx context.Context, fragment string) (*common.Recipe, error)
	// Insert 新增食譜，名稱已存在時回傳 false 且不覆蓋
	Insert(ctx context.Context, r common.Recipe) (bool, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// normalizeCategory 將分類過濾條件轉為小寫，"all" 視為不過濾
func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == strings.ToLower(common.CategoryAll) {
		return ""
	}
	return c
}

// normalizeFragment 名稱片段轉小寫並去除空白
func normalizeFragment(fragment string) string {
	return strings.Join(strings.Fields(strings.ToLower(fragment)), " ")
}

// matchesCategory 分類是否符合過濾條件（filter 已正規化）
func matchesCategory(category, filter string) bool {
	return filter == "" || strings.ToLower(category) == filter
}

// sortSummaries 依名稱排序，同名時依 id
func sortSummaries(list []common.RecipeSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
}

// betterMatch 多筆符合時：名稱較短者優先，其次 id 較小
func betterMatch(candidate, current *common.Recipe) bool {
	if current == nil {
		return true
	}
	a, b := utf8.RuneCountInString(candidate.Name), utf8.RuneCountInString(current.Name)
	if a != b {
		return a < b
	}
	return candidate.ID < current.ID
}
