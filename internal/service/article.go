package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/metrics"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// Article access policy errors. Handlers translate these into per-route
// status codes and wire messages.
var (
	ErrInvalidArticleID = errors.New("article id is not a valid ULID")
	ErrArticleNotFound  = errors.New("article not found")
	ErrNotPublished     = errors.New("article is not published")
	ErrNotOwner         = errors.New("requester does not own the article")
	ErrEmptyUpdate      = errors.New("update carries no fields")
	ErrTitleTaken       = errors.New("article title already taken")
	ErrNoPublished      = errors.New("no published articles match")
	ErrUnknownAuthor    = errors.New("author id is not a valid UUID")
)

// pageSize is the fixed page length of every listing.
const pageSize = 20

// ArticleStore is the persistence contract the article service needs.
// *repository.Repository satisfies it.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticleByID(ctx context.Context, id string) (*model.Article, error)
	GetArticleByTitle(ctx context.Context, title string) (*model.Article, error)
	ListArticles(ctx context.Context, filter repository.ArticleFilter, sortField, sortOrder string, offset, limit int) ([]*model.Article, error)
	UpdateArticleFields(ctx context.Context, id, authorID string, update repository.ArticleUpdate) (*model.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	IncrementReadCount(ctx context.Context, id string) (*model.Article, error)
}

// MissCache remembers article IDs known to be absent so the public read
// path can skip the store for them. Optional; nil disables it.
type MissCache interface {
	IsArticleMissing(ctx context.Context, id string) (bool, error)
	SetArticleMissing(ctx context.Context, id string) error
}

// ArticleService enforces the article visibility and ownership policy.
type ArticleService struct {
	store   ArticleStore
	misses  MissCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewArticleService creates a new ArticleService. misses may be nil.
func NewArticleService(store ArticleStore, misses MissCache, recorder metrics.Recorder, logger *slog.Logger) *ArticleService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleService{
		store:   store,
		misses:  misses,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateInput defines input for creating an article. Tags is the raw
// comma-separated string from the request.
type CreateInput struct {
	Title       string
	Description string
	Body        string
	Tags        string
}

// Create persists a new draft owned by the given identity. Reading time
// is derived from the body and the author display name is frozen at
// creation time.
func (s *ArticleService) Create(ctx context.Context, identity *model.Identity, input CreateInput) (*model.Article, error) {
	_, err := s.store.GetArticleByTitle(ctx, input.Title)
	if err == nil {
		return nil, ErrTitleTaken
	}
	if !errors.Is(err, repository.ErrArticleNotFound) {
		return nil, fmt.Errorf("failed to check title: %w", err)
	}

	now := time.Now().UTC()
	article := &model.Article{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		Author:      identity.FullName(),
		AuthorID:    identity.UserID,
		State:       model.StateDraft,
		ReadCount:   0,
		ReadingTime: model.ReadingTime(input.Body),
		Tags:        model.SplitTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.metrics.IncArticleCreated()

	return article, nil
}

// ListInput carries the query parameters of a public listing.
type ListInput struct {
	Search string
	Sort   string
	Order  string
	Page   int
}

// ListPublished returns one page of published articles. The empty page
// of a query with no matches is an error so callers can report it.
func (s *ArticleService) ListPublished(ctx context.Context, input ListInput) ([]*model.Article, error) {
	filter := repository.ArticleFilter{
		State:  model.StatePublished,
		Search: input.Search,
	}

	articles, err := s.store.ListArticles(ctx, filter, sortField(input.Sort), input.Order, pageOffset(input.Page), pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrNoPublished
	}

	return articles, nil
}

// GetPublished fetches a published article by ID and counts the read.
// The increment and the published-state check are a single statement, so
// concurrent reads each count exactly once and drafts are never bumped.
func (s *ArticleService) GetPublished(ctx context.Context, id string) (*model.Article, error) {
	if _, err := ulid.Parse(id); err != nil {
		return nil, ErrInvalidArticleID
	}

	if s.misses != nil {
		if missing, _ := s.misses.IsArticleMissing(ctx, id); missing {
			return nil, ErrArticleNotFound
		}
	}

	start := time.Now()
	article, err := s.store.IncrementReadCount(ctx, id)
	if err == nil {
		s.metrics.IncArticleRead()
		s.metrics.ObserveReadDuration(time.Since(start))
		return article, nil
	}
	if !errors.Is(err, repository.ErrArticleNotFound) {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}

	// No published row. Distinguish a draft from a dead ID.
	if _, err := s.store.GetArticleByID(ctx, id); err == nil {
		return nil, ErrNotPublished
	} else if !errors.Is(err, repository.ErrArticleNotFound) {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}

	s.rememberMissing(ctx, id)

	return nil, ErrArticleNotFound
}

// UpdateInput carries the optional fields of a partial update. Nil
// fields are left untouched; a non-nil Tags is the raw comma-separated
// string. Reading time is frozen at creation and changes only when the
// caller sends it explicitly, never as a side effect of a body edit.
type UpdateInput struct {
	Title       *string
	Description *string
	Body        *string
	State       *string
	Tags        *string
	ReadingTime *int
}

// IsEmpty reports whether the update carries no fields.
func (u UpdateInput) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Body == nil &&
		u.State == nil && u.Tags == nil && u.ReadingTime == nil
}

// Update applies a partial update to an article owned by the caller.
// Ownership is checked against a fresh fetch and then re-asserted by the
// update statement itself, so a stale check cannot write through.
func (s *ArticleService) Update(ctx context.Context, identity *model.Identity, id string, input UpdateInput) (*model.Article, error) {
	if input.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if _, err := ulid.Parse(id); err != nil {
		return nil, ErrInvalidArticleID
	}

	current, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	if current.AuthorID != identity.UserID {
		return nil, ErrNotOwner
	}

	update := repository.ArticleUpdate{
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		ReadingTime: input.ReadingTime,
	}
	if input.State != nil {
		// The validator accepts padded state values; store the canonical form.
		state := model.ArticleState(strings.TrimSpace(*input.State))
		update.State = &state
	}
	if input.Tags != nil {
		tags := model.SplitTags(*input.Tags)
		update.Tags = &tags
	}

	article, err := s.store.UpdateArticleFields(ctx, id, identity.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTitleExists):
			return nil, ErrTitleTaken
		case errors.Is(err, repository.ErrArticleNotFound):
			// Deleted (or reassigned) between the check and the write.
			return nil, ErrArticleNotFound
		default:
			return nil, fmt.Errorf("failed to update article: %w", err)
		}
	}

	s.metrics.IncArticleUpdated()

	return article, nil
}

// Delete permanently removes an article owned by the caller.
func (s *ArticleService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if _, err := ulid.Parse(id); err != nil {
		return ErrInvalidArticleID
	}

	article, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to fetch article: %w", err)
	}
	if article.AuthorID != identity.UserID {
		return ErrNotOwner
	}

	if err := s.store.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.rememberMissing(ctx, id)
	s.metrics.IncArticleDeleted()

	return nil
}

// ListByAuthor returns one page of an author's articles, optionally
// filtered to one state. Drafts are included for any caller; the route
// has always exposed them and clients depend on it.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID, state string, page int) ([]*model.Article, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, ErrUnknownAuthor
	}

	filter := repository.ArticleFilter{AuthorID: authorID}
	if st := model.ArticleState(state); st.IsValid() {
		filter.State = st
	}

	articles, err := s.store.ListArticles(ctx, filter, "", "", pageOffset(page), pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list author articles: %w", err)
	}

	return articles, nil
}

// rememberMissing populates the negative cache, best effort.
func (s *ArticleService) rememberMissing(ctx context.Context, id string) {
	if s.misses == nil {
		return
	}
	if err := s.misses.SetArticleMissing(ctx, id); err != nil {
		s.logger.Warn("failed to cache missing article id",
			slog.String("component", "article_service"),
			slog.String("error", err.Error()),
		)
	}
}

// sortField maps the public sort parameter onto a store sort field.
// "timestamp" has always meant creation time on the wire.
func sortField(sort string) string {
	if sort == "timestamp" {
		return "createdAt"
	}
	return sort
}

// pageOffset converts a 1-indexed page number to a row offset. Pages
// below 1 clamp to the first page.
func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
