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

type MediaHandler struct {
	svc service.MediaService
}

func NewMediaHandler(svc service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/users", h.Subscribers)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *MediaHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMediaModels(list))
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	m, userIDs, err := h.svc.GetWithSubscribers(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMediaDetail(*m, userIDs))
}

// Subscribers lists subscriber user ids. ?limit=1 turns it into a cheap
// "has any subscriber" check.
func (h *MediaHandler) Subscribers(c *gin.Context) {
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

	ids, err := h.svc.SubscriberIDs(ctx, id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (h *MediaHandler) Create(c *gin.Context) {
	var in dto.MediaRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	model, err := in.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &model); err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("media_id", model.ID).Str("title", model.Title).Msg("media created")
	c.JSON(http.StatusCreated, dto.FromMediaModel(model))
}

func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in dto.MediaRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	model, err := in.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, id, &model)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("media_id", id).Msg("media updated")
	c.JSON(http.StatusOK, dto.FromMediaModel(*updated))
}

func (h *MediaHandler) Delete(c *gin.Context) {
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
	logging.Info().Int64("media_id", id).Msg("media deleted")
	c.JSON(http.StatusOK, dto.FromMediaModel(*deleted))
}
