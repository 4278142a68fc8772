package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maxmsylvain/Vanish/internal/service"
	"github.com/maxmsylvain/Vanish/pkg/response"
)

type Handler struct {
	authService service.AuthService
	postService service.PostService
	userService service.UserService
	relService  service.RelationshipService
}

func New(auth service.AuthService, posts service.PostService, users service.UserService, rels service.RelationshipService) *Handler {
	return &Handler{
		authService: auth,
		postService: posts,
		userService: users,
		relService:  rels,
	}
}

// fail maps service errors onto HTTP statuses: validation -> 400,
// not-found -> 404, forbidden -> 403, everything else -> 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
