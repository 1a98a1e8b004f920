package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-backoffice/internal/auth"
)

// registerHandler godoc
// @Summary Register a back-office user
// @Accept json
// @Produce json
// @Success 201 {object} auth.TokenResponse
// @Router /auth/register [post]
func registerHandler(repo auth.Repository, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}
		u := &auth.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         auth.RoleOwner,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if err == auth.ErrAlreadyExist {
				c.JSON(http.StatusConflict, gin.H{"error": "user exists (username/email)"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		tok, err := tokens.Issue(u.ID, u.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusCreated, auth.TokenResponse{Token: tok, UserID: u.ID, Role: u.Role})
	}
}

// loginHandler godoc
// @Summary Log in and obtain a bearer token
// @Accept json
// @Produce json
// @Success 200 {object} auth.TokenResponse
// @Router /auth/login [post]
func loginHandler(repo auth.Repository, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
			// same answer for unknown email and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		tok, err := tokens.Issue(u.ID, u.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, auth.TokenResponse{Token: tok, UserID: u.ID, Role: u.Role})
	}
}
