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

type SubscriptionHandler struct {
	svc service.SubscriptionService
}

func NewSubscriptionHandler(svc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// RegisterRoutes mounts the /user-media routes.
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/user/:id", h.ByUser)
	rg.GET("/media/:id", h.ByMedia)
	rg.DELETE("/:id", h.Delete)
}

// RegisterMediaRoutes mounts the relationship routes that live under /media.
func (h *SubscriptionHandler) RegisterMediaRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.CreateFromBody)
	rg.DELETE("/:id/:userId", h.Unsubscribe)
}

// Create accepts userId and mediaId as query parameters or as a JSON body.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var in dto.SubscriptionRequest
	var err error
	if c.Query("userId") != "" || c.Query("mediaId") != "" {
		err = c.ShouldBindQuery(&in)
	} else {
		err = c.ShouldBindJSON(&in)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	h.subscribe(c, in)
}

func (h *SubscriptionHandler) CreateFromBody(c *gin.Context) {
	var in dto.SubscriptionRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.ValidationMessage(err)})
		return
	}
	h.subscribe(c, in)
}

func (h *SubscriptionHandler) subscribe(c *gin.Context, in dto.SubscriptionRequest) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	link, err := h.svc.Subscribe(ctx, in.UserID, in.MediaID)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("user_id", in.UserID).Int64("media_id", in.MediaID).Msg("subscription created")
	c.JSON(http.StatusCreated, dto.FromUserMediaModel(*link))
}

func (h *SubscriptionHandler) ByUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	links, err := h.svc.ListByUser(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserMediaModels(links))
}

func (h *SubscriptionHandler) ByMedia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	links, err := h.svc.ListByMedia(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserMediaModels(links))
}

func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	mediaID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	link, err := h.svc.Unsubscribe(ctx, mediaID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	logging.Info().Int64("user_id", userID).Int64("media_id", mediaID).Msg("subscription removed")
	c.JSON(http.StatusOK, dto.FromUserMediaModel(*link))
}
