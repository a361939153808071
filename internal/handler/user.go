package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/inkwell/inkwell/internal/validation"
)

// UserHandler handles HTTP requests for signup, login, and the public
// per-author article listing.
type UserHandler struct {
	users    *service.UserService
	articles *service.ArticleService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, articles *service.ArticleService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		articles: articles,
		logger:   logger,
	}
}

// Signup handles POST /api/v1/user/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	fields := validation.Fields{
		"firstName":       req.FirstName,
		"lastName":        req.LastName,
		"email":           req.Email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
	}
	if msg, ok := validation.Apply(fields, validation.SignupRules); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	token, err := h.users.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeMessage(w, http.StatusUnauthorized, "An account with that email already exists. Login instead.")
			return
		}
		h.internalError(w, "signup", err)
		return
	}

	h.logger.Info("user_registered", "email", req.Email)

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Message: "Registered.",
		Token:   "Bearer " + token,
	})
}

// Login handles POST /api/v1/user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	fields := validation.Fields{
		"email":    req.Email,
		"password": req.Password,
	}
	if msg, ok := validation.Apply(fields, validation.LoginRules); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			writeMessage(w, http.StatusUnauthorized, "An account with that email does not exist. Sign up instead.")
		case errors.Is(err, service.ErrBadCredential):
			writeMessage(w, http.StatusUnauthorized, "Email or password incorrect.")
		default:
			h.internalError(w, "login", err)
		}
		return
	}

	h.logger.Info("user_logged_in", "email", req.Email)

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Message: "Logged in.",
		Token:   "Bearer " + token,
	})
}

// ListAuthorArticles handles GET /api/v1/user/{id}/articles.
// The listing is public and includes drafts; clients build author
// dashboards on top of it.
func (h *UserHandler) ListAuthorArticles(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	state := r.URL.Query().Get("state")
	page := parsePage(r.URL.Query().Get("page"))

	articles, err := h.articles.ListByAuthor(r.Context(), authorID, state, page)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAuthor) {
			writeMessage(w, http.StatusNotFound, "Author does not exist.")
			return
		}
		h.internalError(w, "list_author_articles", err)
		return
	}

	if articles == nil {
		articles = []*model.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *UserHandler) internalError(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("request failed",
		"component", "user_handler",
		"operation", operation,
		"error", err,
	)
	writeMessage(w, http.StatusInternalServerError, "Something went wrong.")
}

// parsePage parses a page query parameter. Anything unparsable is the
// first page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
