package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"cooking-assistant/internal/pkg/common"
)

// uniqueViolation PostgreSQL unique_violation 錯誤碼
const uniqueViolation = "23505"

// RecipeDB recipes 資料表的一列
type RecipeDB struct {
	ID           int64          `db:"id"`
	Name         sql.NullString `db:"name"`
	Cuisine      sql.NullString `db:"cuisine"`
	Category     sql.NullString `db:"category"`
	PrepTime     sql.NullInt64  `db:"prep_time"`
	CookTime     sql.NullInt64  `db:"cook_time"`
	Servings     sql.NullInt64  `db:"servings"`
	Instructions string         `db:"instructions"`
	Ingredients  string         `db:"ingredients"`
	ImageURL     sql.NullString `db:"image_url"`
}

// SQLStore PostgreSQL 食譜儲存
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore 連線資料庫並建立資料表
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	store := &SQLStore{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStoreWithDB 使用既有連線
func NewSQLStoreWithDB(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, querySchema); err != nil {
		common.LogError("建立資料表失敗", zap.Error(err))
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get 依 id 取得食譜
func (s *SQLStore) Get(ctx context.Context, id int64) (*common.Recipe, error) {
	var row RecipeDB

	query, args, err := sqlx.Named(queryGetRecipeByID, map[string]interface{}{"id": id})
	if err != nil {
		common.LogError("Get named query preparation err", zap.Error(err))
		return nil, err
	}
	query = s.db.Rebind(query)

	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		common.LogError("Get execution err", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return makeRecipe(row)
}

// List 列出食譜摘要
func (s *SQLStore) List(ctx context.Context, category string) ([]common.RecipeSummary, error) {
	var rows []RecipeDB

	query, args, err := sqlx.Named(queryListRecipes, map[string]interface{}{
		"category": normalizeCategory(category),
	})
	if err != nil {
		common.LogError("List named query preparation err", zap.Error(err))
		return nil, err
	}
	query = s.db.Rebind(query)

	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		common.LogError("List execution err", zap.String("category", category), zap.Error(err))
		return nil, err
	}

	list := make([]common.RecipeSummary, 0, len(rows))
	for _, row := range rows {
		list = append(list, makeSummary(row))
	}
	// 資料庫排序規則可能與程式不同，統一再排一次
	sortSummaries(list)
	return list, nil
}

// FindByName 名稱子字串比對
func (s *SQLStore) FindByName(ctx context.Context, fragment string) (*common.Recipe, error) {
	needle := normalizeFragment(fragment)
	if needle == "" {
		return nil, common.ErrNotFound
	}

	var row RecipeDB

	query, args, err := sqlx.Named(queryFindRecipeByName, map[string]interface{}{
		"pattern": likePattern(needle),
	})
	if err != nil {
		common.LogError("FindByName named query preparation err", zap.Error(err))
		return nil, err
	}
	query = s.db.Rebind(query)

	if err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		common.LogError("FindByName execution err", zap.String("fragment", fragment), zap.Error(err))
		return nil, err
	}

	return makeRecipe(row)
}

// Insert 新增食譜，名稱衝突時不寫入
func (s *SQLStore) Insert(ctx context.Context, r common.Recipe) (bool, error) {
	if strings.TrimSpace(r.Name) == "" {
		return false, common.ErrInvalidRecipe
	}

	row, err := makeRecipeDB(r)
	if err != nil {
		return false, err
	}

	query, args, err := sqlx.Named(queryInsertRecipe, row)
	if err != nil {
		common.LogError("Insert named query preparation err", zap.Error(err))
		return false, err
	}
	query = s.db.Rebind(query)

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		common.LogError("Insert execution err", zap.String("name", r.Name), zap.Error(err))
		return false, err
	}

	return true, nil
}

// Count 食譜總數
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, queryCountRecipes); err != nil {
		return 0, err
	}
	return n, nil
}

// Close 關閉資料庫連線
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// likePattern 跳脫 LIKE 特殊字元並包成子字串比對
func likePattern(needle string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(needle) + "%"
}

func makeRecipeDB(r common.Recipe) (RecipeDB, error) {
	instructions := r.Instructions
	if instructions == nil {
		instructions = []string{}
	}
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []common.Ingredient{}
	}

	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return RecipeDB{}, fmt.Errorf("failed to encode instructions: %w", err)
	}
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return RecipeDB{}, fmt.Errorf("failed to encode ingredients: %w", err)
	}

	return RecipeDB{
		Name:         sql.NullString{String: strings.TrimSpace(r.Name), Valid: true},
		Cuisine:      sql.NullString{String: r.Cuisine, Valid: true},
		Category:     sql.NullString{String: r.Category, Valid: true},
		PrepTime:     sql.NullInt64{Int64: int64(r.PrepTime), Valid: true},
		CookTime:     sql.NullInt64{Int64: int64(r.CookTime), Valid: true},
		Servings:     sql.NullInt64{Int64: int64(r.Servings), Valid: true},
		Instructions: string(instructionsJSON),
		Ingredients:  string(ingredientsJSON),
		ImageURL:     sql.NullString{String: r.ImageURL, Valid: true},
	}, nil
}

func makeRecipe(row RecipeDB) (*common.Recipe, error) {
	summary := makeSummary(row)
	r := &common.Recipe{
		ID:       summary.ID,
		Name:     summary.Name,
		Cuisine:  summary.Cuisine,
		Category: summary.Category,
		PrepTime: summary.PrepTime,
		CookTime: summary.CookTime,
		Servings: summary.Servings,
		ImageURL: summary.ImageURL,
	}

	if len(row.Instructions) > 0 {
		if err := json.Unmarshal([]byte(row.Instructions), &r.Instructions); err != nil {
			return nil, fmt.Errorf("failed to decode instructions of recipe %d: %w", row.ID, err)
		}
	}
	if len(row.Ingredients) > 0 {
		if err := json.Unmarshal([]byte(row.Ingredients), &r.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to decode ingredients of recipe %d: %w", row.ID, err)
		}
	}
	return r, nil
}

func makeSummary(row RecipeDB) common.RecipeSummary {
	return common.RecipeSummary{
		ID:       row.ID,
		Name:     row.Name.String,
		Cuisine:  row.Cuisine.String,
		Category: row.Category.String,
		PrepTime: int(row.PrepTime.Int64),
		CookTime: int(row.CookTime.Int64),
		Servings: int(row.Servings.Int64),
		ImageURL: row.ImageURL.String,
	}
}
