package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxmsylvain/Vanish/internal/api/middleware"
	"github.com/maxmsylvain/Vanish/pkg/response"
)

type updateProfileRequest struct {
	Bio string `json:"bio" binding:"max=500"`
}

// Profile returns a user and their active posts
// @Summary User profile
// @Tags users
// @Produce json
// @Param username path string true "username"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username} [get]
func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.userService.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile edits the caller's bio
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users/me [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.userService.UpdateBio(c.Request.Context(), middleware.UserID(c), req.Bio); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Search matches usernames and active post content
// @Summary Search users and posts
// @Tags search
// @Produce json
// @Param q query string true "query"
// @Success 200 {object} response.Response{data=service.SearchResult}
// @Router /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	result, err := h.userService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}
