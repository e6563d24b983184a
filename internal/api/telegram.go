package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"landsale/server/internal/models"
	"landsale/server/internal/telegram"
)

// GetTelegramConfig returns the current Telegram configuration
func (h *Handler) GetTelegramConfig(c *gin.Context) {
	config, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram config"})
		return
	}

	if config == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_enabled": false,
			"chat_id":    "",
			"bot_token":  "",
		})
		return
	}

	// Don't send the full bot token back to the client for security
	masked := "••••"
	if len(config.BotToken) >= 4 {
		masked += config.BotToken[len(config.BotToken)-4:]
	}
	config.BotToken = masked
	c.JSON(http.StatusOK, config)
}

// UpdateTelegramConfig updates the Telegram configuration
func (h *Handler) UpdateTelegramConfig(c *gin.Context) {
	var request models.TelegramConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Basic validation
	if len(request.BotToken) < 20 || !strings.Contains(request.BotToken, ":") {
		h.logger.Error("Invalid bot token format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot token format. Please check your bot token from @BotFather"})
		return
	}

	if request.ChatID == "" {
		h.logger.Error("Chat ID is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat ID is required"})
		return
	}

	// Test the Telegram configuration before saving
	testService := telegram.NewService(h.logger)
	testConfig := &models.TelegramConfig{
		BotToken:  request.BotToken,
		ChatID:    request.ChatID,
		IsEnabled: true,
	}
	testService.UpdateConfig(testConfig)

	testMessage := "🔔 Test notification from LandSale\n\nIf you see this message, your Telegram configuration is working correctly!"
	if err := testService.SendMessage(testMessage); err != nil {
		h.logger.WithError(err).Error("Failed to send test message")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Save the configuration
	if err := h.db.UpdateTelegramConfig(&request); err != nil {
		h.logger.WithError(err).Error("Failed to update Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration to database"})
		return
	}

	// Update the service configuration
	if config, err := h.db.GetTelegramConfig(); err == nil && config != nil {
		h.telegramService.UpdateConfig(config)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Telegram configuration updated successfully"})
}

// UpdateTelegramFilters replaces the notification filters. Filters are
// held in memory and reset on restart.
func (h *Handler) UpdateTelegramFilters(c *gin.Context) {
	var filters models.TelegramFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.telegramService.UpdateFilters(&filters)
	c.JSON(http.StatusOK, gin.H{"message": "Notification filters updated"})
}

// TestTelegramConfig sends a sample listing notification using the stored
// configuration.
func (h *Handler) TestTelegramConfig(c *gin.Context) {
	config, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram configuration"})
		return
	}

	if config == nil || !config.IsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Telegram is not configured or is disabled"})
		return
	}

	landSize := 20.0
	sample := &models.Listing{
		ID:           1,
		Title:        "20 perches Land for Sale in Colombo",
		PropertyType: models.PropertyTypeLand,
		Price:        4500000,
		PriceUnit:    models.PriceUnitTotal,
		District:     "Colombo",
		City:         "Colombo",
		LandSize:     &landSize,
		LandUnit:     models.LandUnitPerches,
		ContactPhone: "0771234567",
		Status:       "active",
		URL:          "/properties/1",
	}

	// Bypass the live filters so the test always sends
	mockService := telegram.NewService(h.logger)
	mockService.UpdateConfig(config)
	mockService.SetDatabase(h.db)

	if err := mockService.NotifyNewListing(sample); err != nil {
		h.logger.WithError(err).Error("Failed to send test notification")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent successfully"})
}
