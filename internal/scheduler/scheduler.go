package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"landsale/server/config"
	"landsale/server/internal/database"
	"landsale/server/internal/geocoding"
	"landsale/server/internal/geometry"
)

// JobType represents different types of maintenance jobs
type JobType int

const (
	JobTypeGeocode JobType = iota
	JobTypeExpire
	JobTypeHulls
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypeGeocode:
		return "geocode"
	case JobTypeExpire:
		return "expire"
	case JobTypeHulls:
		return "hulls"
	default:
		return "unknown"
	}
}

// Scheduler runs the periodic listing maintenance jobs: geocoding listings
// that have no coordinates yet, expiring stale listings, and regenerating
// district boundaries.
type Scheduler struct {
	db           *database.Database
	geocoder     *geocoding.Geocoder
	districts    *geometry.DistrictManager
	config       *config.Config
	logger       *logrus.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
	jobMutex     sync.Mutex  // Ensures sequential job execution
	isStartupRun atomic.Bool // Set until the startup jobs have finished
}

// NewScheduler creates a new maintenance scheduler
func NewScheduler(
	db *database.Database,
	geocoder *geocoding.Geocoder,
	districts *geometry.DistrictManager,
	cfg *config.Config,
	logger *logrus.Logger,
) *Scheduler {
	s := &Scheduler{
		db:        db,
		geocoder:  geocoder,
		districts: districts,
		config:    cfg,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	s.isStartupRun.Store(true)
	return s
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles all scheduled tasks
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Run startup jobs in a separate goroutine
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup maintenance jobs")
		s.runGeocodeJob()
		s.runHullsJob()
		s.isStartupRun.Store(false)
		s.logger.Info("Startup maintenance jobs completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(t)
		}
	}
}

// executeScheduledJobs runs all jobs that are scheduled for the given time
func (s *Scheduler) executeScheduledJobs(t time.Time) {
	// Skip if we're still running startup jobs
	if s.isStartupRun.Load() {
		s.logger.Debug("Skipping scheduled jobs while startup is in progress")
		return
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.WithFields(logrus.Fields{
		"hour":   t.Hour(),
		"minute": t.Minute(),
	}).Debug("Checking scheduled jobs")

	// Expire stale listings once a day (2am)
	if t.Hour() == 2 && t.Minute() == 0 {
		s.logger.WithField("job_type", JobTypeExpire.String()).Info("Starting scheduled job")
		if err := s.runExpireJob(); err != nil {
			s.logger.WithError(err).WithField("job_type", JobTypeExpire.String()).Error("Job failed")
		}
	}

	// Geocode newly published listings every hour
	if t.Minute() == 0 {
		s.logger.WithField("job_type", JobTypeGeocode.String()).Info("Starting scheduled job")
		s.runGeocodeJob()
	}

	// Regenerate district hulls every six hours
	if t.Minute() == 0 && t.Hour()%6 == 0 {
		s.logger.WithField("job_type", JobTypeHulls.String()).Info("Starting scheduled job")
		s.runHullsJob()
	}
}

// runGeocodeJob resolves coordinates for listings that have none. Listings
// whose location cannot be geocoded are left for the next run.
func (s *Scheduler) runGeocodeJob() {
	listings, err := s.db.GetListingsWithoutCoordinates(s.config.Maintenance.GeocodeBatchSize)
	if err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeGeocode.String()).
			Error("Failed to load listings without coordinates")
		return
	}

	for _, listing := range listings {
		lat, lon, err := s.geocoder.GeocodeLocation(listing.City, listing.District)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"listing_id": listing.ID,
				"city":       listing.City,
				"district":   listing.District,
				"job_type":   JobTypeGeocode.String(),
			}).Warn("Failed to geocode listing")
			continue
		}

		if err := s.db.UpdateListingCoordinates(listing.ID, lat, lon); err != nil {
			s.logger.WithError(err).WithField("listing_id", listing.ID).
				Error("Failed to store listing coordinates")
		}
	}

	if len(listings) > 0 {
		s.logger.WithFields(logrus.Fields{
			"listings": len(listings),
			"job_type": JobTypeGeocode.String(),
		}).Info("Geocode job completed")
	}
}

// runExpireJob marks listings past their lifetime as expired.
func (s *Scheduler) runExpireJob() error {
	ttl := time.Duration(s.config.Maintenance.ListingTTLDays) * 24 * time.Hour
	expired, err := s.db.ExpireListings(ttl)
	if err != nil {
		return fmt.Errorf("failed to expire listings: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"expired":  expired,
		"ttl_days": s.config.Maintenance.ListingTTLDays,
		"job_type": JobTypeExpire.String(),
	}).Info("Expire job completed")
	return nil
}

// runHullsJob regenerates the district boundaries.
func (s *Scheduler) runHullsJob() {
	if err := s.districts.UpdateDistrictHulls(); err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeHulls.String()).
			Error("Failed to update district hulls")
		return
	}

	s.logger.WithField("job_type", JobTypeHulls.String()).Info("Hulls job completed")
}

// TriggerGeocode runs the geocode and hull jobs once, on demand.
func (s *Scheduler) TriggerGeocode() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.runGeocodeJob()
	s.runHullsJob()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
