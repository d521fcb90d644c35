package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// CreateComment posts a review; a rating updates the fragrance aggregate
// POST /api/v1/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req service.CommentInput
	if !bindJSON(c, &req) {
		return
	}

	comment, err := ctrl.commentService.CreateComment(userID, req)
	if err != nil {
		respondServiceError(c, err, "create comment")
		return
	}

	log.Info("Comment created successfully", map[string]interface{}{
		"comment_id":   comment.ID,
		"fragrance_id": comment.FragranceID,
		"user_id":      userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}

// ListComments returns a fragrance's reviews, newest first
// GET /api/v1/fragrances/:id/comments?page=&page_size=
func (ctrl *CommentController) ListComments(c *gin.Context) {
	fragranceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, err := ctrl.commentService.ListByFragrance(fragranceID, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		respondServiceError(c, err, "fetch fragrance comments")
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeleteComment removes a review and recomputes the rating (Admin only)
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(id); err != nil {
		respondServiceError(c, err, "delete comment")
		return
	}

	log.Info("Comment deleted successfully", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "리뷰가 삭제되었습니다",
	})
}

// MarkHelpful records one helpful vote per user per review
// POST /api/v1/comments/:id/helpful
func (ctrl *CommentController) MarkHelpful(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.commentService.MarkHelpful(id, userID); err != nil {
		respondServiceError(c, err, "mark comment helpful")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "도움이 됨으로 표시했습니다",
	})
}
