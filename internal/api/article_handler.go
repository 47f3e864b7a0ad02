package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the /api/articles endpoints
type ArticleHandler struct {
	articles service.ArticleService
	comments service.CommentService
	log      zerolog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: services.Article,
		comments: services.Comment,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// ListArticles handles GET /api/articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var filter models.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	articles, err := h.articles.ListArticles(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle handles GET /api/articles/:article_id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articles.GetArticle(c.Request.Context(), c.Param("article_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// CreateArticle handles POST /api/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.NewArticle
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	article, err := h.articles.CreateArticle(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// VoteOnArticle handles PATCH /api/articles/:article_id
func (h *ArticleHandler) VoteOnArticle(c *gin.Context) {
	var req models.VoteUpdate
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	article, err := h.articles.VoteOnArticle(c.Request.Context(), c.Param("article_id"), req.IncVotes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// ListComments handles GET /api/articles/:article_id/comments
func (h *ArticleHandler) ListComments(c *gin.Context) {
	var filter models.CommentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), c.Param("article_id"), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment handles POST /api/articles/:article_id/comments
func (h *ArticleHandler) AddComment(c *gin.Context) {
	var req models.NewComment
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), c.Param("article_id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
