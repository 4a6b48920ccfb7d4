package config

import (
	"log"

	"pandayo-coffee-api/internal/adapters/persistence/models"
	"pandayo-coffee-api/internal/core/domain"
	"pandayo-coffee-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin account when none exists.
// Public registration cannot self-assign the admin role, so without this
// (or a manual insert) there is no way to reach the admin endpoints.
// Development convenience only; production creates admins out of band.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin.String()).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash("Adm1n!Pass")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@pandayo.local",
		PasswordHash: hashed,
		Role:         domain.RoleAdmin.String(),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("🔑 Seeded default admin user: %s", admin.Email)
	return nil
}
