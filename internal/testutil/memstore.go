package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// MemStore is an in-memory stand-in for *repository.Repository, for
// tests that exercise services and handlers without PostgreSQL. It
// returns the repository's sentinel errors so error translation paths
// behave as they do against the real store.
type MemStore struct {
	mu       sync.Mutex
	users    map[string]*model.User // keyed by email
	articles map[string]*model.Article
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[string]*model.User),
		articles: make(map[string]*model.Article),
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	clone := *user
	m.users[user.Email] = &clone
	return nil
}

// GetUserByEmail looks up a user by exact email.
func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// GetUserByID looks up a user by ID.
func (m *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateArticle inserts an article, enforcing title uniqueness.
func (m *MemStore) CreateArticle(_ context.Context, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.articles {
		if existing.Title == article.Title {
			return repository.ErrTitleExists
		}
	}
	clone := *article
	m.articles[article.ID] = &clone
	return nil
}

// GetArticleByID retrieves an article regardless of state.
func (m *MemStore) GetArticleByID(_ context.Context, id string) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, repository.ErrArticleNotFound
	}
	clone := *article
	return &clone, nil
}

// GetArticleByTitle retrieves an article by exact title.
func (m *MemStore) GetArticleByTitle(_ context.Context, title string) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, article := range m.articles {
		if article.Title == title {
			clone := *article
			return &clone, nil
		}
	}
	return nil, repository.ErrArticleNotFound
}

// ListArticles filters, sorts, and pages like the SQL implementation.
func (m *MemStore) ListArticles(_ context.Context, filter repository.ArticleFilter, sortField, sortOrder string, offset, limit int) ([]*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*model.Article
	for _, article := range m.articles {
		if filter.State != "" && article.State != filter.State {
			continue
		}
		if filter.AuthorID != "" && article.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Search != "" && !articleMatches(article, filter.Search) {
			continue
		}
		clone := *article
		matched = append(matched, &clone)
	}

	desc := strings.EqualFold(sortOrder, "desc")
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var cmp int
		switch sortField {
		case "read_count":
			cmp = compareInt64(a.ReadCount, b.ReadCount)
		case "reading_time":
			cmp = compareInt64(int64(a.ReadingTime), int64(b.ReadingTime))
		case "createdAt":
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		default:
			return a.ID < b.ID
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// UpdateArticleFields applies a partial update scoped to (id, author).
func (m *MemStore) UpdateArticleFields(_ context.Context, id, authorID string, update repository.ArticleUpdate) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article, ok := m.articles[id]
	if !ok || article.AuthorID != authorID {
		return nil, repository.ErrArticleNotFound
	}
	if update.Title != nil {
		for _, existing := range m.articles {
			if existing.ID != id && existing.Title == *update.Title {
				return nil, repository.ErrTitleExists
			}
		}
		article.Title = *update.Title
	}
	if update.Description != nil {
		article.Description = *update.Description
	}
	if update.Body != nil {
		article.Body = *update.Body
	}
	if update.State != nil {
		article.State = *update.State
	}
	if update.Tags != nil {
		article.Tags = *update.Tags
	}
	if update.ReadingTime != nil {
		article.ReadingTime = *update.ReadingTime
	}
	article.UpdatedAt = time.Now().UTC()

	clone := *article
	return &clone, nil
}

// DeleteArticle removes an article.
func (m *MemStore) DeleteArticle(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return repository.ErrArticleNotFound
	}
	delete(m.articles, id)
	return nil
}

// IncrementReadCount bumps the read counter of a published article.
func (m *MemStore) IncrementReadCount(_ context.Context, id string) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok || article.State != model.StatePublished {
		return nil, repository.ErrArticleNotFound
	}
	article.ReadCount++
	clone := *article
	return &clone, nil
}

// Article returns the stored article by ID, for assertions.
func (m *MemStore) Article(id string) *model.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil
	}
	clone := *article
	return &clone
}

// UserCount reports how many users are stored.
func (m *MemStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func articleMatches(article *model.Article, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(article.Author), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(article.Title), needle) {
		return true
	}
	for _, tag := range article.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
