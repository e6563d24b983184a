package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"landsale/server/config"
	"landsale/server/internal/models"
)

// GetListings returns active listings matching the query filters.
func (h *Handler) GetListings(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing filter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	listings, err := h.db.GetListings(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetListing returns a single listing by id.
func (h *Handler) GetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	listing, err := h.db.GetListing(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetRecentListings returns the most recently published listings.
func (h *Handler) GetRecentListings(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	listings, err := h.db.GetRecentListings(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch recent listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetListingStats summarises the marketplace, optionally per district.
func (h *Handler) GetListingStats(c *gin.Context) {
	district := c.Query("district")

	stats, err := h.db.GetListingStats(district)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch listing stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAreas returns the named map areas with their centers and the default
// map bound.
func (h *Handler) GetAreas(c *gin.Context) {
	bound := config.DefaultBound()

	c.JSON(http.StatusOK, gin.H{
		"areas": config.MapAreas,
		"bound": gin.H{
			"min": bound.Min,
			"max": bound.Max,
		},
	})
}

// GetArea returns a single named map area.
func (h *Handler) GetArea(c *gin.Context) {
	area := config.GetAreaByName(c.Param("name"))
	if area == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Area not found"})
		return
	}

	c.JSON(http.StatusOK, area)
}

// GetDistricts returns the stored district boundaries as GeoJSON features.
func (h *Handler) GetDistricts(c *gin.Context) {
	hulls, err := h.db.GetDistrictHulls()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch district hulls")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch district boundaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"districts": hulls})
}

// UpdateCoordinates triggers an immediate geocoding and boundary refresh.
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	go h.maintenance.TriggerGeocode()

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Coordinate update started",
	})
}

// ImportListings accepts a bulk batch of externally sourced listings and
// enqueues it for the background upsert processor. Every listing in the
// batch needs a reference, which is the upsert conflict key.
func (h *Handler) ImportListings(c *gin.Context) {
	var listings []*models.Listing
	if err := c.ShouldBindJSON(&listings); err != nil {
		h.logger.WithError(err).Error("Failed to parse import batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	if len(listings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty import batch"})
		return
	}
	for _, listing := range listings {
		if listing.Reference == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Every imported listing needs a reference"})
			return
		}
	}

	// Split oversized payloads so each queued batch stays within the
	// processor's batch size.
	queued := 0
	for start := 0; start < len(listings); start += h.maxBatchSize {
		end := start + h.maxBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := h.importQueue.Push(listings[start:end]); err != nil {
			h.logger.WithError(err).Error("Failed to enqueue import batch")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":  "Import queue is full, try again later",
				"queued": queued,
			})
			return
		}
		queued += end - start
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"queued": queued,
	})
}
