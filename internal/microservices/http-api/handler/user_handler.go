package handler

import (
	"context"
	"net/http"
	"time"

	"mediahub/internal/logging"
	"mediahub/internal/microservices/http-api/dto"
	"mediahub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/media", h.Media)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	users, err := h.svc.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModels(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.svc.GetByID(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(*u))
}

// Media lists the ids of media the user is subscribed to.
func (h *UserHandler) Media(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	ids, err := h.svc.MediaIDs(ctx, id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in dto.UserRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	model := in.ToModel()
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &model); err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("user_id", model.ID).Msg("user created")
	c.JSON(http.StatusCreated, dto.FromUserModel(model))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in dto.UserRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	model := in.ToModel()
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, id, &model)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("user_id", id).Msg("user updated")
	c.JSON(http.StatusOK, dto.FromUserModel(*updated))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	deleted, err := h.svc.Delete(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("user_id", id).Msg("user deleted")
	c.JSON(http.StatusOK, dto.FromUserModel(*deleted))
}
