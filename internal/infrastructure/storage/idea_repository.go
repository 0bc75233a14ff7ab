package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/domain"
	"IdeaSpark/internal/ports"
)

var ideaColumns = []string{
	"id", "date", "name", "description", "url", "upvotes",
	"image", "mini_idea", "title_summaries", "created_at",
}

// IdeaRepository persists generated idea records.
type IdeaRepository struct {
	db *sql.DB
}

var _ ports.IdeaRepository = (*IdeaRepository)(nil)

// NewIdeaRepository wires a sql.DB implementation.
func NewIdeaRepository(db *sql.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

// Insert appends one row, storing the idea lists as given; alignment
// happens on read, not here. Batch callers issue one Insert per record; a
// failure partway through leaves earlier records committed.
func (r *IdeaRepository) Insert(ctx context.Context, idea *domain.Idea) error {
	miniJSON, err := encodeStringList(idea.MiniIdeas)
	if err != nil {
		return fmt.Errorf("marshal mini ideas: %w", err)
	}
	titlesJSON, err := encodeStringList(idea.TitleSummaries)
	if err != nil {
		return fmt.Errorf("marshal title summaries: %w", err)
	}

	query, args, err := sq.Insert("ideas").
		Columns("date", "name", "description", "url", "upvotes", "image", "mini_idea", "title_summaries").
		Values(idea.Date, idea.Name, idea.Description, idea.URL,
			idea.Upvotes, nullable(idea.Image), miniJSON, titlesJSON).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert idea: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		idea.ID = id
	}
	return nil
}

// ByID loads one record.
func (r *IdeaRepository) ByID(ctx context.Context, id int64) (domain.Idea, error) {
	query, args, err := sq.Select(ideaColumns...).
		From("ideas").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Idea{}, fmt.Errorf("build select: %w", err)
	}

	idea, err := scanIdea(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Idea{}, apperr.NotFound("idea %d not found", id)
	}
	if err != nil {
		return domain.Idea{}, fmt.Errorf("load idea %d: %w", id, err)
	}
	return idea, nil
}

// ByDate returns a date's records, newest first.
func (r *IdeaRepository) ByDate(ctx context.Context, date string) ([]domain.Idea, error) {
	query, args, err := sq.Select(ideaColumns...).
		From("ideas").
		Where(sq.Eq{"date": date}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.queryIdeas(ctx, query, args...)
}

// Page returns one page ordered newest date first.
func (r *IdeaRepository) Page(ctx context.Context, limit, offset int) ([]domain.Idea, error) {
	query, args, err := sq.Select(ideaColumns...).
		From("ideas").
		OrderBy("date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.queryIdeas(ctx, query, args...)
}

// Count reports the total number of stored records.
func (r *IdeaRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ideas`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count ideas: %w", err)
	}
	return total, nil
}

// Dates lists the distinct dates that carry records, newest first.
func (r *IdeaRepository) Dates(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT date FROM ideas ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// UpdateIdeaLists overwrites one record's idea lists as given (alignment
// happens on read) and bumps its creation timestamp; every other column
// is untouched.
func (r *IdeaRepository) UpdateIdeaLists(ctx context.Context, id int64, miniIdeas, titleSummaries []string) error {
	miniJSON, err := encodeStringList(miniIdeas)
	if err != nil {
		return fmt.Errorf("marshal mini ideas: %w", err)
	}
	titlesJSON, err := encodeStringList(titleSummaries)
	if err != nil {
		return fmt.Errorf("marshal title summaries: %w", err)
	}

	query, args, err := sq.Update("ideas").
		Set("mini_idea", miniJSON).
		Set("title_summaries", titlesJSON).
		Set("created_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update idea %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return apperr.NotFound("idea %d not found", id)
	}
	return nil
}

// DeleteByDate removes all records for one date and reports how many went.
func (r *IdeaRepository) DeleteByDate(ctx context.Context, date string) (int64, error) {
	query, args, err := sq.Delete("ideas").Where(sq.Eq{"date": date}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete ideas for %s: %w", date, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

func (r *IdeaRepository) queryIdeas(ctx context.Context, query string, args ...any) ([]domain.Idea, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]domain.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanIdea maps one row to a domain record and applies read-side
// normalization: a non-array mini_idea value degrades to an empty list,
// and title summaries are realigned to the mini-idea length.
func scanIdea(row rowScanner) (domain.Idea, error) {
	var (
		idea      domain.Idea
		image     sql.NullString
		miniRaw   string
		titlesRaw sql.NullString
	)

	err := row.Scan(&idea.ID, &idea.Date, &idea.Name, &idea.Description, &idea.URL,
		&idea.Upvotes, &image, &miniRaw, &titlesRaw, &idea.CreatedAt)
	if err != nil {
		return domain.Idea{}, err
	}

	idea.Image = image.String
	idea.MiniIdeas = decodeStringList(miniRaw)
	idea.TitleSummaries = decodeStringList(titlesRaw.String)
	return idea.Normalize(), nil
}

func encodeStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeStringList(raw string) []string {
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	return list
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
