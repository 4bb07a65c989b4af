package recipe

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cooking-assistant/internal/pkg/common"
)

//go:embed seed/recipes.json
var seedData []byte

var validate = validator.New()

// SeedReport 匯入結果統計
type SeedReport struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// LoadSeedData 解析內建的食譜資料
func LoadSeedData() ([]common.Recipe, error) {
	return parseSeed(seedData)
}

// LoadSeedFile 從檔案讀取食譜資料
func LoadSeedFile(path string) ([]common.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) ([]common.Recipe, error) {
	var recipes []common.Recipe
	if err := common.ParseJSONBytesStrict(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return recipes, nil
}

// ValidateRecipe 檢查食譜欄位
func ValidateRecipe(r common.Recipe) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidRecipe, err)
	}
	return nil
}

// Seed 匯入食譜，已存在的名稱略過，單筆失敗不影響其他筆
func Seed(ctx context.Context, store Store, recipes []common.Recipe) (SeedReport, error) {
	var report SeedReport

	for i, r := range recipes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := ValidateRecipe(r); err != nil {
			report.Failed++
			common.LogWarn("食譜資料無效",
				zap.Int("index", i),
				zap.String("name", r.Name),
				zap.Error(err),
			)
			continue
		}

		inserted, err := store.Insert(ctx, r)
		if err != nil {
			report.Failed++
			common.LogError("新增食譜失敗",
				zap.String("name", r.Name),
				zap.Error(err),
			)
			continue
		}

		if inserted {
			report.Inserted++
			common.LogDebug("新增食譜", zap.String("name", r.Name))
		} else {
			report.Skipped++
			common.LogDebug("食譜已存在，略過", zap.String("name", r.Name))
		}
	}

	common.LogInfo("食譜匯入完成",
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}
