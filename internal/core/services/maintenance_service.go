package services

import (
	"context"
	"log"

	"pandayo-coffee-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// purgeAfterDays is how long soft-deleted users are retained before the
// nightly purge removes them for good.
const purgeAfterDays = 30

// MaintenanceService runs scheduled housekeeping jobs.
type MaintenanceService struct {
	userRepo repositories.UserRepository
	cron     *cron.Cron
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(userRepo repositories.UserRepository) *MaintenanceService {
	return &MaintenanceService{
		userRepo: userRepo,
		cron:     cron.New(),
	}
}

// Start registers and launches the scheduled jobs.
func (s *MaintenanceService) Start() {
	s.cron.AddFunc("@daily", s.purgeDeletedUsers)
	s.cron.Start()
	log.Println("🚀 MaintenanceService started")
}

// Stop stops the scheduler; running jobs finish.
func (s *MaintenanceService) Stop() {
	s.cron.Stop()
	log.Println("🛑 MaintenanceService stopped")
}

func (s *MaintenanceService) purgeDeletedUsers() {
	purged, err := s.userRepo.PurgeDeletedBefore(context.Background(), purgeAfterDays)
	if err != nil {
		log.Printf("⚠️ Failed to purge deleted users: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("🧹 Purged %d soft-deleted users", purged)
	}
}
