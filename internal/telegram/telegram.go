package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"landsale/server/internal/database"
	"landsale/server/internal/generator"
	"landsale/server/internal/models"
)

// Service sends new-listing notifications to a configured Telegram chat.
type Service struct {
	logger  *logrus.Logger
	client  *http.Client
	config  *models.TelegramConfig
	filters *models.TelegramFilters
	db      *database.Database
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.config = config
}

func (s *Service) UpdateFilters(filters *models.TelegramFilters) {
	s.filters = filters
}

func (s *Service) SetDatabase(db *database.Database) {
	s.db = db
}

// getPriceAnalysis compares a land listing's per-perch price against the
// district median.
func (s *Service) getPriceAnalysis(listing *models.Listing) (string, string, error) {
	if s.db == nil {
		return "", "", errors.New("database connection not initialized")
	}

	if listing.LandSize == nil || *listing.LandSize <= 0 {
		return "", "", errors.New("listing has no land size")
	}

	pricePerPerch := listing.Price
	if listing.PriceUnit != models.PriceUnitPerPerch {
		pricePerPerch = listing.Price / *listing.LandSize
	}
	perPerchStr := fmt.Sprintf("%s/perch", generator.FormatPrice(pricePerPerch))

	medianPrice, err := s.db.GetDistrictMedianPricePerPerch(listing.District)
	if err != nil {
		return perPerchStr, "District comparison unavailable", err
	}

	if medianPrice <= 0 {
		return perPerchStr, "No comparable listings in district", nil
	}

	priceDiff := ((pricePerPerch - medianPrice) / medianPrice) * 100
	var analysis string
	switch {
	case priceDiff <= -10:
		analysis = fmt.Sprintf("%.1f%% below district median (%s/perch)", -priceDiff, generator.FormatPrice(medianPrice))
	case priceDiff >= 10:
		analysis = fmt.Sprintf("%.1f%% above district median (%s/perch)", priceDiff, generator.FormatPrice(medianPrice))
	default:
		analysis = fmt.Sprintf("Close to district median (%s/perch)", generator.FormatPrice(medianPrice))
	}

	return perPerchStr, analysis, nil
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyNewListing sends a notification about a newly published listing.
// Listings rejected by the notification filters are skipped silently.
func (s *Service) NotifyNewListing(listing *models.Listing) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if !s.filters.IsListingAllowed(listing) {
		s.logger.WithField("listing_id", listing.ID).Debug("Listing filtered from notifications")
		return nil
	}

	location := listing.City
	if location == "" {
		location = listing.Address
	}
	if listing.District != "" {
		if location != "" {
			location += ", "
		}
		location += listing.District
	}
	if location == "" {
		location = "Sri Lanka"
	}

	size := "N/A"
	if listing.LandSize != nil {
		unit := string(listing.LandUnit)
		if unit == "" {
			unit = "perches"
		}
		size = fmt.Sprintf("%s %s", generator.FormatAmount(*listing.LandSize), unit)
	}

	priceSuffix := ""
	if listing.PriceUnit == models.PriceUnitPerPerch {
		priceSuffix = " per perch"
	}

	pricePerPerch := "N/A"
	priceAnalysis := "N/A"
	if listing.PropertyType == models.PropertyTypeLand {
		var err error
		pricePerPerch, priceAnalysis, err = s.getPriceAnalysis(listing)
		if err != nil {
			s.logger.WithError(err).Debug("Price analysis unavailable")
			if pricePerPerch == "" {
				pricePerPerch = "N/A"
			}
			if priceAnalysis == "" {
				priceAnalysis = "N/A"
			}
		}
	}

	message := fmt.Sprintf(
		"<b>New Property Listed!</b>\n\n"+
			"🏠 %s\n"+
			"📍 %s\n"+
			"💰 %s%s\n"+
			"📐 %s\n"+
			"💵 %s\n"+
			"📊 %s\n\n"+
			"🔗 <a href=\"%s\">View listing</a>",
		listing.Title,
		location,
		generator.FormatPrice(listing.Price),
		priceSuffix,
		size,
		pricePerPerch,
		priceAnalysis,
		listing.URL,
	)

	return s.SendMessage(message)
}
