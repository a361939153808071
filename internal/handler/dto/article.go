package dto

import "github.com/inkwell/inkwell/internal/model"

// CreateArticleRequest is the body of POST /api/v1/articles/create.
// Tags is a single comma-separated string on the wire.
type CreateArticleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Tags        string `json:"tags"`
}

// UpdateArticleRequest is the body of PATCH /api/v1/articles/{id}.
// Absent fields are left untouched; nil distinguishes "not sent" from
// an explicit empty string. Reading time only moves when sent here;
// editing the body alone never touches it.
type UpdateArticleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
	State       *string `json:"state"`
	Tags        *string `json:"tags"`
	ReadingTime *int    `json:"reading_time"`
}

// ArticleResponse wraps a single article fetch with its author block.
type ArticleResponse struct {
	Article *model.Article      `json:"article"`
	Author  model.AuthorSummary `json:"author"`
}

// UpdatedArticleResponse acknowledges an update with the fresh row.
type UpdatedArticleResponse struct {
	Message string         `json:"message"`
	Article *model.Article `json:"article"`
}
