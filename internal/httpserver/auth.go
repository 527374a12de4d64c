package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "tailorstudio/internal/service/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	u, token, err := h.deps.AuthSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      u,
		"token":     token,
		"expiresIn": h.deps.AuthSvc.TTLSeconds(),
	})
}

func (h *handlers) logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.deps.AuthSvc.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": userFromContext(c)})
}

func (h *handlers) addUser(c *gin.Context) {
	var req authsvc.AddUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	u, err := h.deps.AuthSvc.AddUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.deps.AuthSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.deps.AuthSvc.DeleteUser(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
