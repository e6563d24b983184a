package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"landsale/server/internal/conversation"
	"landsale/server/internal/database"
	"landsale/server/internal/publish"
	"landsale/server/internal/queue"
	"landsale/server/internal/responder"
	"landsale/server/internal/scheduler"
	"landsale/server/internal/telegram"
)

type Handler struct {
	db              *database.Database
	logger          *logrus.Logger
	sessions        *conversation.Manager
	responder       *responder.Responder
	gateway         *publish.Gateway
	importQueue     *queue.ListingQueue
	telegramService *telegram.Service
	maintenance     *scheduler.Scheduler
	maxBatchSize    int
}

type MessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type PublishRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func NewHandler(
	db *database.Database,
	sessions *conversation.Manager,
	resp *responder.Responder,
	gateway *publish.Gateway,
	importQueue *queue.ListingQueue,
	telegramService *telegram.Service,
	maintenance *scheduler.Scheduler,
	maxBatchSize int,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		db:              db,
		logger:          logger,
		sessions:        sessions,
		responder:       resp,
		gateway:         gateway,
		importQueue:     importQueue,
		telegramService: telegramService,
		maintenance:     maintenance,
		maxBatchSize:    maxBatchSize,
	}
}

// CreateChatSession starts a new listing conversation.
func (h *Handler) CreateChatSession(c *gin.Context) {
	id, conv := h.sessions.Create()

	c.JSON(http.StatusCreated, gin.H{
		"session_id": id,
		"state":      conv.State(),
	})
}

// GetChatSession returns the current conversation state.
func (h *Handler) GetChatSession(c *gin.Context) {
	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": conv.State()})
}

// PostChatMessage feeds one user message into the conversation and returns
// the assistant's reply plus the updated state.
func (h *Handler) PostChatMessage(c *gin.Context) {
	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse chat message")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	reply := h.responder.Respond(conv, req.Message)

	c.JSON(http.StatusOK, gin.H{
		"reply": reply,
		"state": conv.State(),
	})
}

// ResetChatSession discards the draft and starts over.
func (h *Handler) ResetChatSession(c *gin.Context) {
	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	conv.Reset()
	c.JSON(http.StatusOK, gin.H{"state": conv.State()})
}

// PublishChatListing validates the draft and stores it as a listing.
func (h *Handler) PublishChatListing(c *gin.Context) {
	conv, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse publish request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	result, err := h.gateway.Publish(conv, req.UserID)
	if err != nil {
		var validationErr *publish.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          validationErr.Error(),
				"missing_fields": validationErr.Missing,
			})
			return
		}

		// Store failures are surfaced verbatim; the conversation stays
		// publishable so the user can retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": result.ListingID,
		"url":        result.URL,
		"state":      conv.State(),
	})
}
