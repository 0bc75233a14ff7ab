package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	// One shared in-memory database; a second pooled connection would see
	// an empty one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestMigrateSeedsDefaultRecipe(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	recipes := NewRecipeRepository(db)

	def, err := recipes.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Classic", def.Name)
	assert.True(t, def.IsDefault)
	assert.Empty(t, def.Exclusions)

	// A second migration must not duplicate the seed.
	require.NoError(t, Migrate(ctx, db))
	all, err := recipes.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIdeaInsertAndReadBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewIdeaRepository(db)

	idea := domain.Idea{
		Date:           "2026-08-21",
		Name:           "PixelPal",
		Description:    "A tiny pixel-art companion.",
		URL:            "https://example.com/pixelpal",
		Upvotes:        412,
		Image:          "https://cdn.example.com/pixelpal.png",
		MiniIdeas:      []string{"Build a browser pet", "Chrome new-tab pet"},
		TitleSummaries: []string{"Browser Pet"},
	}
	require.NoError(t, repo.Insert(ctx, &idea))
	require.NotZero(t, idea.ID)

	got, err := repo.ByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "PixelPal", got.Name)
	assert.Equal(t, 412, got.Upvotes)
	assert.Equal(t, []string{"Build a browser pet", "Chrome new-tab pet"}, got.MiniIdeas)
	// Read-side normalization pads the short title list.
	assert.Equal(t, []string{"Browser Pet", ""}, got.TitleSummaries)

	// The row itself keeps the lists as written; alignment happens on read.
	var rawTitles string
	err = db.QueryRowContext(ctx, `SELECT title_summaries FROM ideas WHERE id = ?`, idea.ID).Scan(&rawTitles)
	require.NoError(t, err)
	assert.JSONEq(t, `["Browser Pet"]`, rawTitles)
}

func TestIdeaByIDNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewIdeaRepository(db)

	_, err := repo.ByID(context.Background(), 9999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestIdeaCorruptListDegradesToEmpty(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewIdeaRepository(db)

	res, err := db.ExecContext(ctx, `
		INSERT INTO ideas (date, name, mini_idea, title_summaries)
		VALUES ('2026-08-21', 'Broken', 'not json at all', '["orphan title"]')`)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	got, err := repo.ByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.MiniIdeas)
	// No mini ideas means no titles survive realignment.
	assert.Empty(t, got.TitleSummaries)
}

func TestIdeaDatesAndDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewIdeaRepository(db)

	for _, date := range []string{"2026-08-20", "2026-08-21", "2026-08-21"} {
		idea := domain.Idea{Date: date, Name: "n"}
		require.NoError(t, repo.Insert(ctx, &idea))
	}

	dates, err := repo.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08-21", "2026-08-20"}, dates)

	deleted, err := repo.DeleteByDate(ctx, "2026-08-21")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = repo.DeleteByDate(ctx, "2026-08-21")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestIdeaPageOrdering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewIdeaRepository(db)

	for _, r := range []struct{ date, name string }{
		{"2026-08-19", "older"},
		{"2026-08-21", "newest"},
		{"2026-08-20", "middle"},
	} {
		idea := domain.Idea{Date: r.date, Name: r.name}
		require.NoError(t, repo.Insert(ctx, &idea))
	}

	page, err := repo.Page(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "newest", page[0].Name)
	assert.Equal(t, "middle", page[1].Name)

	rest, err := repo.Page(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "older", rest[0].Name)
}

func TestIdeaUpdateIdeaLists(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewIdeaRepository(db)

	idea := domain.Idea{Date: "2026-08-21", Name: "Refreshable", MiniIdeas: []string{"old"}}
	require.NoError(t, repo.Insert(ctx, &idea))

	err := repo.UpdateIdeaLists(ctx, idea.ID, []string{"new a", "new b"}, []string{"A"})
	require.NoError(t, err)

	got, err := repo.ByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new a", "new b"}, got.MiniIdeas)
	assert.Equal(t, []string{"A", ""}, got.TitleSummaries)

	err = repo.UpdateIdeaLists(ctx, 424242, []string{"x"}, nil)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRecipeCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewRecipeRepository(db)

	recipe := domain.Recipe{
		Name:        "Hardware Hacks",
		Description: "Physical computing weekend builds.",
		PromptStyle: "Focus on Raspberry Pi and microcontroller projects.",
		Exclusions:  []string{"soldering-heavy builds"},
		Source:      domain.SourcePrompt,
	}
	require.NoError(t, repo.Create(ctx, &recipe))
	require.NotZero(t, recipe.ID)
	assert.False(t, recipe.IsDefault)
	assert.Equal(t, domain.SourcePrompt, recipe.Source)

	newName := "Hardware Hacks v2"
	newExclusions := []string{"soldering-heavy builds", "drones"}
	updated, err := repo.Update(ctx, recipe.ID, domain.RecipePatch{
		Name:       &newName,
		Exclusions: &newExclusions,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hardware Hacks v2", updated.Name)
	assert.Equal(t, newExclusions, updated.Exclusions)
	assert.Equal(t, "Physical computing weekend builds.", updated.Description)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].IsDefault, "default recipe sorts first")

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	_, err = repo.ByID(ctx, recipe.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRecipeValidation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewRecipeRepository(db)

	err := repo.Create(ctx, &domain.Recipe{Name: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	def, err := repo.Default(ctx)
	require.NoError(t, err)

	empty := ""
	_, err = repo.Update(ctx, def.ID, domain.RecipePatch{Name: &empty})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = repo.Update(ctx, def.ID, domain.RecipePatch{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = repo.Delete(ctx, def.ID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	renamed := "renamed"
	_, err = repo.Update(ctx, 777, domain.RecipePatch{Name: &renamed})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
