package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/auth"
	"github.com/sigo-dev/sigo/internal/store"
	"github.com/sigo-dev/sigo/internal/types"
)

type UserHandler struct {
	users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	BusinessArea   string `json:"business_area"`
	ProfilePicture string `json:"profile_picture"`
}

type UpdateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Password       *string `json:"password" binding:"omitempty,min=8"`
	BusinessArea   *string `json:"business_area"`
	ProfilePicture *string `json:"profile_picture"`
	IsActive       *bool   `json:"is_active"`
}

func (h *UserHandler) Create(ctx *gin.Context) {
	var req CreateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user, err := h.users.Create(store.CreateUserParams{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		BusinessArea:   req.BusinessArea,
		ProfilePicture: req.ProfilePicture,
	})

	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(*user))
}

func (h *UserHandler) Get(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.users.GetByID(id)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

func (h *UserHandler) List(ctx *gin.Context) {
	skip, limit := parsePagination(ctx)

	users, err := h.users.List(skip, limit)

	if err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) Update(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	params := store.UpdateUserParams{
		Username:       req.Username,
		BusinessArea:   req.BusinessArea,
		ProfilePicture: req.ProfilePicture,
		IsActive:       req.IsActive,
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}

	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)

		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		params.PasswordHash = &passwordHash
	}

	user, err := h.users.Update(id, params)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrDuplicateEmail):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		default:
			log.Printf("Failed to update user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

func (h *UserHandler) Delete(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
