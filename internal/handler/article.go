package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/inkwell/inkwell/internal/validation"
)

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	svc    *service.ArticleService
	logger *slog.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(svc *service.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/articles.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	articles, err := h.svc.ListPublished(r.Context(), service.ListInput{
		Search: query.Get("search"),
		Sort:   query.Get("sort"),
		Order:  query.Get("order"),
		Page:   parsePage(query.Get("page")),
	})
	if err != nil {
		if errors.Is(err, service.ErrNoPublished) {
			writeMessage(w, http.StatusNotFound, "It's empty here, there are no published articles at the moment.")
			return
		}
		h.internalError(w, "list", err)
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

// Get handles GET /api/v1/articles/{id}. Reading a published article
// bumps its read count.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	article, err := h.svc.GetPublished(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArticleID), errors.Is(err, service.ErrArticleNotFound):
			writeMessage(w, http.StatusNotFound, "Oops! That article does not exist.")
		case errors.Is(err, service.ErrNotPublished):
			writeMessage(w, http.StatusNotFound, "That article has not been published.")
		default:
			h.internalError(w, "get", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.ArticleResponse{
		Article: article,
		Author: model.AuthorSummary{
			Author:   article.Author,
			AuthorID: article.AuthorID,
		},
	})
}

// Create handles POST /api/v1/articles/create.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	var req dto.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	fields := validation.Fields{
		"title":       req.Title,
		"description": req.Description,
		"body":        req.Body,
		"tags":        req.Tags,
	}
	if msg, ok := validation.Apply(fields, validation.CreateArticleRules); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	article, err := h.svc.Create(r.Context(), identity, service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, service.ErrTitleTaken) {
			writeMessage(w, http.StatusBadRequest, "The title of your article already exists.")
			return
		}
		h.internalError(w, "create", err)
		return
	}

	h.logger.Info("article_created",
		"article_id", article.ID,
		"author_id", article.AuthorID,
	)

	writeMessage(w, http.StatusOK, "Created.")
}

// Update handles PATCH /api/v1/articles/{id}.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "There's nothing to be updated.")
		return
	}

	state := ""
	if req.State != nil {
		state = *req.State
	}
	if msg, ok := validation.Apply(validation.Fields{"state": state}, validation.UpdateArticleRules); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	article, err := h.svc.Update(r.Context(), identity, id, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		State:       req.State,
		Tags:        req.Tags,
		ReadingTime: req.ReadingTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			writeMessage(w, http.StatusBadRequest, "There's nothing to be updated.")
		case errors.Is(err, service.ErrInvalidArticleID), errors.Is(err, service.ErrArticleNotFound):
			writeMessage(w, http.StatusNotFound, "Could not find that article.")
		case errors.Is(err, service.ErrNotOwner):
			writeMessage(w, http.StatusForbidden, "You are not authorized to update this article.")
		case errors.Is(err, service.ErrTitleTaken):
			writeMessage(w, http.StatusBadRequest, "The title of your article already exists.")
		default:
			h.internalError(w, "update", err)
		}
		return
	}

	h.logger.Info("article_updated",
		"article_id", article.ID,
		"author_id", article.AuthorID,
	)

	writeJSON(w, http.StatusOK, dto.UpdatedArticleResponse{
		Message: "Article updated.",
		Article: article,
	})
}

// Delete handles DELETE /api/v1/articles/{id}.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArticleID):
			writeMessage(w, http.StatusNotFound, "Could not find that article.")
		case errors.Is(err, service.ErrArticleNotFound):
			writeMessage(w, http.StatusNotFound, "Article not found.")
		case errors.Is(err, service.ErrNotOwner):
			writeMessage(w, http.StatusForbidden, "You are not authorized to delete this article.")
		default:
			h.internalError(w, "delete", err)
		}
		return
	}

	h.logger.Info("article_deleted",
		"article_id", id,
		"author_id", identity.UserID,
	)

	writeMessage(w, http.StatusOK, "Article deleted.")
}

func (h *ArticleHandler) internalError(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("request failed",
		"component", "article_handler",
		"operation", operation,
		"error", err,
	)
	writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
}
