package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/rs/zerolog"
)

// CommentHandler handles the /api/comments endpoints
type CommentHandler struct {
	comments service.CommentService
	log      zerolog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: services.Comment,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// GetComment handles GET /api/comments/:comment_id
func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, err := h.comments.GetComment(c.Request.Context(), c.Param("comment_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// VoteOnComment handles PATCH /api/comments/:comment_id
func (h *CommentHandler) VoteOnComment(c *gin.Context) {
	var req models.VoteUpdate
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	comment, err := h.comments.VoteOnComment(c.Request.Context(), c.Param("comment_id"), req.IncVotes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /api/comments/:comment_id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.comments.DeleteComment(c.Request.Context(), c.Param("comment_id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
