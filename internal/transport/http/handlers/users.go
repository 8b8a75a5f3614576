package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/repository"
	"github.com/arklim/social-platform-accounts/internal/transport/http/middleware"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// UserHandler exposes account administration and profile endpoints.
type UserHandler struct {
	auth  *usecase.AuthService
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(auth *usecase.AuthService, users *usecase.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// RegisterRoutes binds user routes. The profile routes are registered
// before the parameterized ones; gin routes static segments ahead of
// parameters so /users/me/profile and /users/:id coexist.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.auth)
	requireActive := middleware.RequireActive()
	requireSuperuser := middleware.RequireSuperuser()

	r.GET("", requireAuth, requireActive, h.list)
	r.POST("", requireAuth, requireSuperuser, h.create)
	r.GET("/me/profile", requireAuth, requireActive, h.myProfile)
	r.PUT("/me/profile", requireAuth, requireActive, h.updateMyProfile)
	// Single-user lookup is public.
	r.GET("/:id", h.get)
	r.PUT("/:id", requireAuth, requireActive, h.update)
	r.DELETE("/:id", requireAuth, requireSuperuser, h.delete)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return 0, false
	}
	return id, true
}

func (h *UserHandler) list(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	users, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	c.JSON(http.StatusOK, NewUserResponseList(users))
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(user))
}

func (h *UserHandler) create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet policy"},
			{Err: repository.ErrDuplicateUsername, Status: http.StatusUnprocessableEntity, Message: "username already exists"},
			{Err: repository.ErrDuplicateEmail, Status: http.StatusUnprocessableEntity, Message: "email already exists"},
		}, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, NewUserResponse(user))
}

func (h *UserHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, usecase.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		IsActive: req.IsActive,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet policy"},
			{Err: repository.ErrDuplicateUsername, Status: http.StatusUnprocessableEntity, Message: "username already exists"},
			{Err: repository.ErrDuplicateEmail, Status: http.StatusUnprocessableEntity, Message: "email already exists"},
		}, http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(user))
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deletedBy := ""
	if current, ok := middleware.CurrentUser(c); ok {
		deletedBy = current.Username
	}

	if err := h.users.Delete(c.Request.Context(), id, deletedBy); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

func (h *UserHandler) myProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(user))
}

func (h *UserHandler) updateMyProfile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	// Profile updates cannot change the activity flag.
	user, err := h.users.Update(c.Request.Context(), current.ID, usecase.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusUnprocessableEntity, Message: "password does not meet policy"},
			{Err: repository.ErrDuplicateUsername, Status: http.StatusUnprocessableEntity, Message: "username already exists"},
			{Err: repository.ErrDuplicateEmail, Status: http.StatusUnprocessableEntity, Message: "email already exists"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(user))
}
