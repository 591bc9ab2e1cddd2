package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-registry/internal/http/middleware"
	"fleet-registry/internal/service"
)

const tokenCookieName = "jwt"

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cookieTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "loggedout", 10)
	c.JSON(http.StatusOK, successResponse(gin.H{"message": "logged out"}))
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, failResponse("missing principal"))
		return
	}

	user, err := h.userService.Get(c.Request.Context(), principal.UserID.String())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"user": user}))
}

func (h *Handler) listUsers(c *gin.Context) {
	result, err := h.userService.List(c.Request.Context(), queryParams(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"results":     len(result.Users),
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"data":        gin.H{"users": result.Users},
	})
}

func (h *Handler) createUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"user": user}))
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"user": user}))
}

func (h *Handler) updateUser(c *gin.Context) {
	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"user": user}))
}

func (h *Handler) changeUserPassword(c *gin.Context) {
	var req struct {
		UserID      string `json:"userId"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failResponse(err.Error()))
		return
	}
	if req.UserID == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, failResponse("userId and newPassword are required"))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), req.UserID, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "password updated"}))
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.userService.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// setSessionCookie mirrors the token into an httponly cookie so browser
// clients stay logged in without storing the token themselves.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := h.env == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookieName, value, maxAge, "/", "", secure, true)
}
