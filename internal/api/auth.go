package api

import (
	"net/http" // HTTP status codes

	"drops_api/internal/domain"     // Importing domain models
	"drops_api/internal/middleware" // Principal lookup
	"drops_api/internal/service"    // Auth service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Audit logging
)

// RegisterRequest is the body for self and admin registration
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"` // Only honoured on the admin route
}

// LoginRequest is the body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token     string       `json:"access_token"` // JWT token
	TokenType string       `json:"token_type"`   // Always "bearer"
	User      UserResponse `json:"user"`         // Logged in user
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uint        `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role}
}

// RegisterHandler creates a CLIENT account; any requested role is ignored
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      domain.RoleClient,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// AdminCreateUserHandler lets an admin create a user with any valid role
func AdminCreateUserHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		role := domain.RoleClient
		if req.Role != "" {
			r, err := domain.ParseRole(req.Role)
			if err != nil {
				respondError(c, err)
				return
			}
			role = r
		}
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Role:      role,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"role":     user.Role,
			"admin_id": principalID(c),
		}).Info("User created by admin")
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		token, user, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ip": c.ClientIP()}).Warn("Failed login")
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "ip": c.ClientIP()}).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{Token: token, TokenType: "bearer", User: toUserResponse(user)})
	}
}

// MeHandler returns the authenticated user
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toUserResponse(middleware.Principal(c)))
	}
}
