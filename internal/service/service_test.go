package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// fakeStore is an in-memory UserStore and ArticleStore for unit tests.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*model.User // keyed by email
	articles map[string]*model.Article
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*model.User),
		articles: make(map[string]*model.Article),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	clone := *user
	f.users[user.Email] = &clone
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) CreateArticle(_ context.Context, article *model.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.articles {
		if existing.Title == article.Title {
			return repository.ErrTitleExists
		}
	}
	clone := *article
	f.articles[article.ID] = &clone
	return nil
}

func (f *fakeStore) GetArticleByID(_ context.Context, id string) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return nil, repository.ErrArticleNotFound
	}
	clone := *article
	return &clone, nil
}

func (f *fakeStore) GetArticleByTitle(_ context.Context, title string) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, article := range f.articles {
		if article.Title == title {
			clone := *article
			return &clone, nil
		}
	}
	return nil, repository.ErrArticleNotFound
}

func (f *fakeStore) ListArticles(_ context.Context, filter repository.ArticleFilter, sortFieldName, sortOrder string, offset, limit int) ([]*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*model.Article
	for _, article := range f.articles {
		if filter.State != "" && article.State != filter.State {
			continue
		}
		if filter.AuthorID != "" && article.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Search != "" && !matchesSearch(article, filter.Search) {
			continue
		}
		clone := *article
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch sortFieldName {
		case "read_count":
			if a.ReadCount != b.ReadCount {
				less = a.ReadCount < b.ReadCount
			} else {
				return a.ID < b.ID
			}
		case "reading_time":
			if a.ReadingTime != b.ReadingTime {
				less = a.ReadingTime < b.ReadingTime
			} else {
				return a.ID < b.ID
			}
		case "createdAt":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				less = a.CreatedAt.Before(b.CreatedAt)
			} else {
				return a.ID < b.ID
			}
		default:
			return a.ID < b.ID
		}
		if strings.EqualFold(sortOrder, "desc") {
			return !less
		}
		return less
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

func matchesSearch(article *model.Article, search string) bool {
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

func (f *fakeStore) UpdateArticleFields(_ context.Context, id, authorID string, update repository.ArticleUpdate) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	article, ok := f.articles[id]
	if !ok || article.AuthorID != authorID {
		return nil, repository.ErrArticleNotFound
	}
	if update.Title != nil {
		for _, existing := range f.articles {
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

func (f *fakeStore) DeleteArticle(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.articles[id]; !ok {
		return repository.ErrArticleNotFound
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeStore) IncrementReadCount(_ context.Context, id string) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok || article.State != model.StatePublished {
		return nil, repository.ErrArticleNotFound
	}
	article.ReadCount++
	clone := *article
	return &clone, nil
}

// fakeMissCache records negative-cache traffic.
type fakeMissCache struct {
	mu      sync.Mutex
	missing map[string]bool
	lookups int
}

func newFakeMissCache() *fakeMissCache {
	return &fakeMissCache{missing: make(map[string]bool)}
}

func (f *fakeMissCache) IsArticleMissing(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.missing[id], nil
}

func (f *fakeMissCache) SetArticleMissing(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[id] = true
	return nil
}
