// AngelaMos | 2026
// handler.go

package article

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/prasanth1122/coherencebackend/internal/core"
	"github.com/prasanth1122/coherencebackend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/articles", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListArticles)
		r.Get("/{articleID}", h.GetArticle)
		r.Get("/{articleID}/sub-articles", h.ListSubArticles)
		r.Get("/{articleID}/comments", h.ListComments)
		r.Post("/{articleID}/comments", h.AddComment)
		r.Post("/{articleID}/ratings", h.RateArticle)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/", h.CreateArticle)
			r.Put("/{articleID}", h.UpdateArticle)
			r.Delete("/{articleID}", h.DeleteArticle)
		})
	})
}

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	params := ListArticlesParams{
		Category: r.URL.Query().Get("category"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}
	params.Normalize()

	articles, total, err := h.service.List(r.Context(), params)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "unknown category")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToArticleSummaryList(articles),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	articleID := chi.URLParam(r, "articleID")

	a, err := h.service.Get(r.Context(), articleID, claims.UserID, claims.Role)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.OK(w, ToArticleResponse(a))
}

func (h *Handler) ListSubArticles(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")

	articles, err := h.service.ListSubArticles(r.Context(), articleID)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.OK(w, ToArticleSummaryList(articles))
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "parent article does not exist")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToArticleResponse(a))
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")

	var req UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	a, err := h.service.Update(r.Context(), articleID, req)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.OK(w, ToArticleResponse(a))
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")

	if err := h.service.Delete(r.Context(), articleID); err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	articleID := chi.URLParam(r, "articleID")

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.AddComment(
		r.Context(),
		articleID,
		claims.UserID,
		claims.Role,
		req.Text,
	)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.Created(w, c)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	articleID := chi.URLParam(r, "articleID")

	comments, err := h.service.ListComments(
		r.Context(),
		articleID,
		claims.UserID,
		claims.Role,
	)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	if comments == nil {
		comments = []Comment{}
	}

	core.OK(w, comments)
}

func (h *Handler) RateArticle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	articleID := chi.URLParam(r, "articleID")

	var req RateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.Rate(
		r.Context(),
		articleID,
		claims.UserID,
		claims.Role,
		req.Rating,
	)
	if err != nil {
		h.writeArticleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeArticleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "article")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "your subscription does not cover this content")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
