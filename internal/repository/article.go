package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/inkwell/inkwell/internal/model"
)

// Common errors for article repository operations.
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrTitleExists     = errors.New("title already exists")
)

// articleColumns is the column list shared by all article queries.
const articleColumns = "id, title, description, body, author, author_id, state, read_count, reading_time, tags, created_at, updated_at"

// sortColumns whitelists user-selectable sort fields against column names.
// Anything else falls back to insertion order (ULID primary key).
var sortColumns = map[string]string{
	"read_count":   "read_count",
	"reading_time": "reading_time",
	"createdAt":    "created_at",
}

// ArticleFilter defines filters for listing articles.
type ArticleFilter struct {
	State    model.ArticleState
	AuthorID string
	Search   string
}

// ArticleUpdate carries the optional fields of a partial update.
// Nil fields are left untouched.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
	State       *model.ArticleState
	Tags        *[]string
	ReadingTime *int
}

// IsEmpty reports whether the update carries no fields.
func (u ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Body == nil &&
		u.State == nil && u.Tags == nil && u.ReadingTime == nil
}

// CreateArticle inserts a new article into the database.
// The unique index on title is the authoritative duplicate guard:
// concurrent creates with the same title cannot both succeed.
func (r *Repository) CreateArticle(ctx context.Context, article *model.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Description,
		article.Body,
		article.Author,
		article.AuthorID,
		article.State,
		article.ReadCount,
		article.ReadingTime,
		article.Tags,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// GetArticleByID retrieves an article by its ID regardless of state.
func (r *Repository) GetArticleByID(ctx context.Context, id string) (*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := r.scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}

	return article, nil
}

// GetArticleByTitle retrieves an article by exact title match, any state.
// Used as the pre-check for title uniqueness.
func (r *Repository) GetArticleByTitle(ctx context.Context, title string) (*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE title = $1`

	article, err := r.scanArticle(r.pool.QueryRow(ctx, query, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by title: %w", err)
	}

	return article, nil
}

// ListArticles retrieves articles matching the filter, ordered and paginated.
// sortField must be one of the whitelisted fields; anything else (including
// empty) orders by id, which for ULIDs is insertion order. sortOrder is
// "desc" for descending, anything else ascending.
func (r *Repository) ListArticles(ctx context.Context, filter ArticleFilter, sortField, sortOrder string, offset, limit int) ([]*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.State != "" {
		query += fmt.Sprintf(" AND state = $%d", argIndex)
		args = append(args, filter.State)
		argIndex++
	}

	if filter.AuthorID != "" {
		query += fmt.Sprintf(" AND author_id = $%d", argIndex)
		args = append(args, filter.AuthorID)
		argIndex++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(
			" AND (author ILIKE '%%' || $%d || '%%' OR title ILIKE '%%' || $%d || '%%'"+
				" OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE '%%' || $%d || '%%'))",
			argIndex, argIndex, argIndex,
		)
		args = append(args, filter.Search)
		argIndex++
	}

	column, ok := sortColumns[sortField]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	// Secondary id order keeps pagination stable when the sort column ties.
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)

	query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", argIndex, argIndex+1)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		article, err := r.scanArticleFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}

// UpdateArticleFields applies a partial update to a single article in one
// statement scoped to (id, author_id), so ownership verified beforehand
// cannot be bypassed by a concurrent reassignment. Returns the updated row.
func (r *Repository) UpdateArticleFields(ctx context.Context, id, authorID string, update ArticleUpdate) (*model.Article, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id, authorID}
	argIndex := 3

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Body != nil {
		appendSet("body", *update.Body)
	}
	if update.State != nil {
		appendSet("state", *update.State)
	}
	if update.Tags != nil {
		appendSet("tags", *update.Tags)
	}
	if update.ReadingTime != nil {
		appendSet("reading_time", *update.ReadingTime)
	}

	query := fmt.Sprintf(
		"UPDATE articles SET %s WHERE id = $1 AND author_id = $2 RETURNING %s",
		strings.Join(sets, ", "), articleColumns,
	)

	article, err := r.scanArticle(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrTitleExists
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

// DeleteArticle permanently removes an article.
func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// IncrementReadCount atomically increments the read counter of a published
// article and returns the post-increment row. Drafts and missing IDs both
// return ErrArticleNotFound; the caller decides how to report each case.
func (r *Repository) IncrementReadCount(ctx context.Context, id string) (*model.Article, error) {
	query := `
		UPDATE articles
		SET read_count = read_count + 1
		WHERE id = $1 AND state = 'published'
		RETURNING ` + articleColumns

	article, err := r.scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to increment read count: %w", err)
	}

	return article, nil
}

// scanArticle scans a single row into an Article model.
func (r *Repository) scanArticle(row pgx.Row) (*model.Article, error) {
	var article model.Article
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.Author,
		&article.AuthorID,
		&article.State,
		&article.ReadCount,
		&article.ReadingTime,
		&article.Tags,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	return &article, err
}

// scanArticleFromRows scans a row from pgx.Rows into an Article model.
func (r *Repository) scanArticleFromRows(rows pgx.Rows) (*model.Article, error) {
	var article model.Article
	err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.Author,
		&article.AuthorID,
		&article.State,
		&article.ReadCount,
		&article.ReadingTime,
		&article.Tags,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	return &article, err
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	// PostgreSQL error code 23505 is unique_violation
	return err != nil && (strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "unique"))
}
