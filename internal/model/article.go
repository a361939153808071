package model

import (
	"strings"
	"time"
)

// ArticleState represents the visibility state of an article.
type ArticleState string

const (
	StateDraft     ArticleState = "draft"
	StatePublished ArticleState = "published"
)

// IsValid checks if the state is one of the two supported states.
func (s ArticleState) IsValid() bool {
	return s == StateDraft || s == StatePublished
}

// wordsPerMinute is the average reading speed used for reading-time estimates.
const wordsPerMinute = 200

// Article represents a blog article entity.
// Author is a denormalized copy of the owner's full name at creation time.
// AuthorID is set once at creation and never reassigned.
type Article struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Body        string       `json:"body"`
	Author      string       `json:"author"`
	AuthorID    string       `json:"authorID"`
	State       ArticleState `json:"state"`
	ReadCount   int64        `json:"read_count"`
	ReadingTime int          `json:"reading_time"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsPublished returns true if the article is publicly visible.
func (a *Article) IsPublished() bool {
	return a.State == StatePublished
}

// AuthorSummary is the author block returned alongside a single article fetch.
// It duplicates fields already present on the article.
type AuthorSummary struct {
	Author   string `json:"author"`
	AuthorID string `json:"authorID"`
}

// ReadingTime estimates reading time in minutes: ceil(words / 200),
// where words are runs of non-whitespace in the body.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// SplitTags splits a comma-delimited tag string into a list.
// Surrounding whitespace is trimmed and empty entries are dropped.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
