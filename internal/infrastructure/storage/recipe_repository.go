package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/ports"
)

var recipeColumns = []string{
	"id", "name", "description", "prompt_style", "exclusions",
	"source", "is_default", "created_at", "updated_at",
}

// RecipeRepository stores prompt recipes.
type RecipeRepository struct {
	db *sql.DB
}

var _ ports.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository wires a sql.DB implementation.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// All lists recipes, default first, then by name.
func (r *RecipeRepository) All(ctx context.Context) ([]domain.Recipe, error) {
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		OrderBy("is_default DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// ByID loads one recipe.
func (r *RecipeRepository) ByID(ctx context.Context, id int64) (domain.Recipe, error) {
	return r.one(ctx, sq.Eq{"id": id}, fmt.Sprintf("recipe %d not found", id))
}

// Default loads the recipe flagged default.
func (r *RecipeRepository) Default(ctx context.Context) (domain.Recipe, error) {
	return r.one(ctx, sq.Eq{"is_default": 1}, "no default recipe configured")
}

func (r *RecipeRepository) one(ctx context.Context, cond sq.Eq, missing string) (domain.Recipe, error) {
	query, args, err := sq.Select(recipeColumns...).
		From("recipes").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("build select: %w", err)
	}

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Recipe{}, apperr.NotFound("%s", missing)
	}
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("load recipe: %w", err)
	}
	return recipe, nil
}

// Create inserts a new non-default recipe and fills in its id and
// timestamps.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return apperr.Validation("recipe name is required")
	}

	exclusions := recipe.Exclusions
	if exclusions == nil {
		exclusions = []string{}
	}
	exclusionsJSON, err := json.Marshal(exclusions)
	if err != nil {
		return fmt.Errorf("marshal exclusions: %w", err)
	}

	query, args, err := sq.Insert("recipes").
		Columns("name", "description", "prompt_style", "exclusions", "source", "is_default").
		Values(strings.TrimSpace(recipe.Name), nullable(strings.TrimSpace(recipe.Description)),
			nullable(strings.TrimSpace(recipe.PromptStyle)), string(exclusionsJSON),
			nullable(string(recipe.Source)), 0).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	created, err := r.ByID(ctx, id)
	if err != nil {
		return err
	}
	*recipe = created
	return nil
}

// Update applies a partial patch and bumps updated_at. The default flag
// is never patchable.
func (r *RecipeRepository) Update(ctx context.Context, id int64, patch domain.RecipePatch) (domain.Recipe, error) {
	if _, err := r.ByID(ctx, id); err != nil {
		return domain.Recipe{}, err
	}

	update := sq.Update("recipes").Where(sq.Eq{"id": id})
	touched := false

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Recipe{}, apperr.Validation("recipe name cannot be empty")
		}
		update = update.Set("name", name)
		touched = true
	}
	if patch.Description != nil {
		update = update.Set("description", nullable(strings.TrimSpace(*patch.Description)))
		touched = true
	}
	if patch.PromptStyle != nil {
		update = update.Set("prompt_style", nullable(strings.TrimSpace(*patch.PromptStyle)))
		touched = true
	}
	if patch.Exclusions != nil {
		exclusionsJSON, err := json.Marshal(*patch.Exclusions)
		if err != nil {
			return domain.Recipe{}, fmt.Errorf("marshal exclusions: %w", err)
		}
		update = update.Set("exclusions", string(exclusionsJSON))
		touched = true
	}
	if patch.Source != nil {
		source := *patch.Source
		if source != "" && !domain.ValidSourceKind(source) {
			source = ""
		}
		update = update.Set("source", nullable(string(source)))
		touched = true
	}

	if !touched {
		return domain.Recipe{}, apperr.Validation("no fields to update")
	}

	query, args, err := update.Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).ToSql()
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Recipe{}, fmt.Errorf("update recipe %d: %w", id, err)
	}

	return r.ByID(ctx, id)
}

// Delete removes a recipe; the default recipe is protected.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	existing, err := r.ByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return apperr.Validation("cannot delete the default recipe")
	}

	query, args, err := sq.Delete("recipes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	return nil
}

// scanRecipe maps one row; an unreadable exclusions column degrades to an
// empty list instead of failing the read.
func scanRecipe(row rowScanner) (domain.Recipe, error) {
	var (
		recipe      domain.Recipe
		description sql.NullString
		promptStyle sql.NullString
		exclusions  sql.NullString
		source      sql.NullString
		isDefault   int
	)

	err := row.Scan(&recipe.ID, &recipe.Name, &description, &promptStyle, &exclusions,
		&source, &isDefault, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe.Description = description.String
	recipe.PromptStyle = promptStyle.String
	recipe.Source = domain.SourceKind(source.String)
	recipe.IsDefault = isDefault == 1
	recipe.Exclusions = decodeStringList(exclusions.String)
	return recipe, nil
}
