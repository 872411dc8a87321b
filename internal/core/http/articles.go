package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/wartahub/warta/internal/core/domain"
	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/pkg/httpx"
	"github.com/wartahub/warta/pkg/slogx"
	"github.com/wartahub/warta/pkg/wartasdk"
)

type ArticlesHandler struct {
	PublishingService *service.PublishingService
	Validate          *validator.Validate
}

func articleInfo(a domain.Article) wartasdk.ArticleInfo {
	return wartasdk.ArticleInfo{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Author:    a.Author,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

func articleList(arts []domain.Article) wartasdk.ArticleListResponse {
	out := wartasdk.ArticleListResponse{Articles: make([]wartasdk.ArticleInfo, 0, len(arts))}
	for _, a := range arts {
		out.Articles = append(out.Articles, articleInfo(a))
	}
	return out
}

// limitParam parses ?limit=N; 0 means "use the server default".
func limitParam(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// HandleCreate stores a new article owned by the token's subject, published
// immediately when the body asks for it. The articles:write scope
// requirement in the route chain is what keeps plain users out; by the time
// we're here the caller is allowed to write.
func (h *ArticlesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	author, _ := ctx.Value(httpx.CtxKeyUserID).(string)

	var req wartasdk.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription("body must be valid JSON").WriteError(w)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		wartasdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	art, err := h.PublishingService.Create(ctx, author, req.Title, req.Content, req.Publish)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("article created", "article_id", art.ID, "author", author, "status", art.Status)
	httpx.WriteJSON(w, http.StatusCreated, articleInfo(art))
}

// HandlePublish flips one of the caller's drafts to published. Articles
// owned by other authors 404 rather than 403 so article ids can't be probed.
func (h *ArticlesHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	author, _ := ctx.Value(httpx.CtxKeyUserID).(string)
	id := r.PathValue("id")

	if err := h.PublishingService.Publish(ctx, id, author); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("article published", "article_id", id, "author", author)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ArticlesHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	author, _ := ctx.Value(httpx.CtxKeyUserID).(string)

	arts, err := h.PublishingService.ListMine(ctx, author, limitParam(r))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, articleList(arts))
}

func (h *ArticlesHandler) HandlePublished(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	arts, err := h.PublishingService.ListPublished(ctx, limitParam(r))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, articleList(arts))
}
