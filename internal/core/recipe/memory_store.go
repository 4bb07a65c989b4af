package recipe

import (
	"context"
	"strings"
	"sync"

	"cooking-assistant/internal/pkg/common"
)

// MemoryStore 記憶體食譜儲存
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[int64]*common.Recipe
	names   map[string]int64
	nextID  int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[int64]*common.Recipe),
		names:   make(map[string]int64),
		nextID:  1,
	}
}

// Get 依 id 取得食譜
func (s *MemoryStore) Get(ctx context.Context, id int64) (*common.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.Clone(), nil
}

// List 列出食譜摘要
func (s *MemoryStore) List(ctx context.Context, category string) ([]common.RecipeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := normalizeCategory(category)

	s.mu.RLock()
	list := make([]common.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		if matchesCategory(r.Category, filter) {
			list = append(list, r.Summary())
		}
	}
	s.mu.RUnlock()

	sortSummaries(list)
	return list, nil
}

// FindByName 名稱子字串比對
func (s *MemoryStore) FindByName(ctx context.Context, fragment string) (*common.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := normalizeFragment(fragment)
	if needle == "" {
		return nil, common.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *common.Recipe
	for _, r := range s.recipes {
		if !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		if betterMatch(r, best) {
			best = r
		}
	}
	if best == nil {
		return nil, common.ErrNotFound
	}
	return best.Clone(), nil
}

// Insert 新增食譜
func (s *MemoryStore) Insert(ctx context.Context, r common.Recipe) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := strings.ToLower(strings.TrimSpace(r.Name))
	if key == "" {
		return false, common.ErrInvalidRecipe
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[key]; exists {
		return false, nil
	}

	stored := r.Clone()
	stored.ID = s.nextID
	s.nextID++
	s.recipes[stored.ID] = stored
	s.names[key] = stored.ID
	return true, nil
}

// Count 食譜總數
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes), nil
}

// Close 記憶體儲存無需釋放資源
func (s *MemoryStore) Close() error {
	return nil
}
