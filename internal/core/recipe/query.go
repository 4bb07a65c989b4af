package recipe

const (
	querySchema = `
		CREATE TABLE IF NOT EXISTS recipes (
			id           BIGSERIAL PRIMARY KEY,
			name         TEXT NOT NULL,
			cuisine      TEXT NOT NULL DEFAULT '',
			category     TEXT NOT NULL DEFAULT '',
			prep_time    INTEGER NOT NULL DEFAULT 0,
			cook_time    INTEGER NOT NULL DEFAULT 0,
			servings     INTEGER NOT NULL DEFAULT 1,
			instructions JSONB NOT NULL DEFAULT '[]',
			ingredients  JSONB NOT NULL DEFAULT '[]',
			image_url    TEXT NOT NULL DEFAULT ''
		);
		CREATE UNIQUE INDEX IF NOT EXISTS recipes_name_lower_idx ON recipes (LOWER(name));
	`

	queryInsertRecipe = `
		INSERT INTO recipes (
			name,
			cuisine,
			category,
			prep_time,
			cook_time,
			servings,
			instructions,
			ingredients,
			image_url
		) VALUES (
			:name,
			:cuisine,
			:category,
			:prep_time,
			:cook_time,
			:servings,
			:instructions,
			:ingredients,
			:image_url
		)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	queryGetRecipeByID = `
		SELECT
			id,
			name,
			cuisine,
			category,
			prep_time,
			cook_time,
			servings,
			instructions,
			ingredients,
			image_url
		FROM recipes
		WHERE id = :id
	`

	queryFindRecipeByName = `
		SELECT
			id,
			name,
			cuisine,
			category,
			prep_time,
			cook_time,
			servings,
			instructions,
			ingredients,
			image_url
		FROM recipes
		WHERE LOWER(name) LIKE :pattern ESCAPE '\'
		ORDER BY LENGTH(name) ASC, id ASC
		LIMIT 1
	`

	queryListRecipes = `
		SELECT
			id,
			name,
			cuisine,
			category,
			prep_time,
			cook_time,
			servings,
			image_url
		FROM recipes
		WHERE :category = '' OR LOWER(category) = :category
		ORDER BY name ASC, id ASC
	`

	queryCountRecipes = `SELECT COUNT(*) FROM recipes`
)
