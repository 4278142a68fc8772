package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmsylvain/Vanish/internal/api/middleware"
	"github.com/maxmsylvain/Vanish/internal/service"
	"github.com/maxmsylvain/Vanish/pkg/response"
)

type createPostRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// CreatePost publishes a post (or a reply when parent_id is set)
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "post body"
// @Success 201 {object} response.Response{data=service.PostView}
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req.Content, req.ParentID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, view)
}

// ListPosts returns every still-active post, newest first
// @Summary List active posts
// @Tags posts
// @Produce json
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	views, err := h.postService.ListFeed(c.Request.Context(), middleware.UserID(c), service.FeedAll)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, views)
}

// Feed returns the viewer's feed
// @Summary Personal feed
// @Tags posts
// @Produce json
// @Param type query string false "all or followed" default(all)
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	feedType := c.DefaultQuery("type", service.FeedAll)
	views, err := h.postService.ListFeed(c.Request.Context(), middleware.UserID(c), feedType)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"feed_type": feedType, "posts": views})
}

// ListReplies returns the active replies of a post, oldest first
// @Summary List replies
// @Tags posts
// @Produce json
// @Param id path string true "post id"
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	views, err := h.postService.ListReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"replies": views})
}

// Remaining reports the seconds left before a post vanishes
// @Summary Remaining lifetime of a post
// @Tags posts
// @Produce json
// @Param id path string true "post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id}/remaining [get]
func (h *Handler) Remaining(c *gin.Context) {
	seconds, err := h.postService.Remaining(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"remaining_seconds": seconds})
}

// DeletePost removes one of the caller's posts
// @Summary Delete a post
// @Tags posts
// @Param id path string true "post id"
// @Success 204 "deleted"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.NoContent(c)
}
