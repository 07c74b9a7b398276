package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}
	user, token, err := ac.Users.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated user's own record.
func (ac *AuthController) Me(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	user, err := ac.Users.Get(p.UID)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) CreateSubUser(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	var in services.CreateSubUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	user, err := ac.Users.CreateSubUser(p, in)
	if err != nil {
		respondError(c, err, "Failed to create sub-user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Sub-user created successfully",
		"user":    user,
	})
}

func (ac *AuthController) ListSubUsers(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		return
	}
	users, err := ac.Users.ListSubUsers(p)
	if err != nil {
		respondError(c, err, "Failed to fetch sub-users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
