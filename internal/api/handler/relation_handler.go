package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmsylvain/Vanish/internal/api/middleware"
	"github.com/maxmsylvain/Vanish/pkg/response"
)

type followRequest struct {
	Username string `json:"username" binding:"required"`
}

// Follow makes the caller follow a user
// @Summary Follow a user
// @Tags relations
// @Accept json
// @Produce json
// @Param request body followRequest true "user to follow"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Follow(c.Request.Context(), middleware.UserID(c), req.Username); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow removes a follow edge
// @Summary Unfollow a user
// @Tags relations
// @Accept json
// @Produce json
// @Param request body followRequest true "user to unfollow"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), middleware.UserID(c), req.Username); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// RelationStats returns follower/following counts for a user
// @Summary Relation stats
// @Tags relations
// @Produce json
// @Param username path string true "username"
// @Success 200 {object} response.Response{data=service.RelationStats}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username}/stats [get]
func (h *Handler) RelationStats(c *gin.Context) {
	stats, err := h.relService.Stats(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}
