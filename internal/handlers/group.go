package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/store"
	"github.com/sigo-dev/sigo/internal/types"
)

type GroupHandler struct {
	groups *store.GroupStore
}

func NewGroupHandler(groups *store.GroupStore) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type CreateGroupRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	BackgroundImage string `json:"background_image"`
}

type UpdateGroupRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	BackgroundImage *string `json:"background_image"`
}

type MembershipRequest struct {
	GroupID uint `json:"group_id" binding:"required"`
}

func (h *GroupHandler) Create(ctx *gin.Context) {
	var req CreateGroupRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	group, err := h.groups.Create(store.CreateGroupParams{
		Name:            req.Name,
		Description:     req.Description,
		BackgroundImage: req.BackgroundImage,
	})

	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Group name already exists"})
			return
		}
		log.Printf("Failed to create group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewGroupResponse(*group))
}

func (h *GroupHandler) Get(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "group_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	group, err := h.groups.GetByID(id)

	if err != nil {
		if errors.Is(err, store.ErrGroupNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("Failed to fetch group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewGroupWithUsersResponse(*group))
}

func (h *GroupHandler) List(ctx *gin.Context) {
	skip, limit := parsePagination(ctx)

	groups, err := h.groups.List(skip, limit)

	if err != nil {
		log.Printf("Failed to list groups: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.GroupResponse, 0, len(groups))

	for _, group := range groups {
		response = append(response, types.NewGroupResponse(group))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *GroupHandler) Update(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "group_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var req UpdateGroupRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	group, err := h.groups.Update(id, store.UpdateGroupParams{
		Name:            req.Name,
		Description:     req.Description,
		BackgroundImage: req.BackgroundImage,
	})

	if err != nil {
		switch {
		case errors.Is(err, store.ErrGroupNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, store.ErrDuplicateName):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Group name already exists"})
		default:
			log.Printf("Failed to update group: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewGroupResponse(*group))
}

func (h *GroupHandler) Delete(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "group_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.groups.Delete(id); err != nil {
		if errors.Is(err, store.ErrGroupNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("Failed to delete group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *GroupHandler) ListUserGroups(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	groups, err := h.groups.GroupsForUser(userID)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Failed to list groups for user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.GroupResponse, 0, len(groups))

	for _, group := range groups {
		response = append(response, types.NewGroupResponse(group))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *GroupHandler) AddUserToGroup(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req MembershipRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.groups.AddUser(req.GroupID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrGroupNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, store.ErrUserNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrAlreadyMember):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this group"})
		default:
			log.Printf("Failed to add user to group: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User added to group successfully"})
}

func (h *GroupHandler) RemoveUserFromGroup(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req MembershipRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.groups.RemoveUser(req.GroupID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrGroupNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, store.ErrUserNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrNotMember):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is not a member of this group"})
		default:
			log.Printf("Failed to remove user from group: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User removed from group successfully"})
}
