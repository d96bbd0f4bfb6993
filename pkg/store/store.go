// Package store persists users, workouts and screenshots in Postgres via gorm.
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitocr/models"
	"fitocr/pkg/auth"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
)

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open connects to the Postgres DSN, optionally migrating and seeding roles.
func Open(dsn string, autoMigrate bool) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := New(gdb)
	if autoMigrate {
		s.Migrate()
	}
	if err := s.SeedRoles(); err != nil {
		return nil, err
	}
	return s, nil
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// DB exposes the handle for callers that need raw queries.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate runs AutoMigrate per model so one failure does not block the rest.
// Failures (typically permissions) are logged.
func (s *Store) Migrate() {
	for _, m := range []struct {
		name  string
		model any
	}{
		{"roles", &models.Role{}},
		{"users", &models.User{}},
		{"workouts", &models.Workout{}},
		{"screenshots", &models.Screenshot{}},
	} {
		if err := s.db.AutoMigrate(m.model); err != nil {
			log.Printf("migration warning (%s): %v", m.name, err)
		}
	}
}

// SeedRoles ensures the default roles exist.
func (s *Store) SeedRoles() error {
	for _, r := range models.DefaultRoles() {
		role := r
		if err := s.db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

// CreateUser registers username with a hashed password and the named role.
func (s *Store) CreateUser(username, password, roleName string) (models.User, error) {
	username, err := auth.NormalizeUsername(username)
	if err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	if roleName == "" {
		roleName = models.RoleUser
	}
	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return models.User{}, ErrUserExists
	}
	role := models.Role{Name: roleName}
	if err := s.db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
		return models.User{}, fmt.Errorf("ensure role %s: %w", roleName, err)
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hash, RoleID: &rid}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return user, nil
}

// SetPassword replaces the password of an existing user.
func (s *Store) SetPassword(username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	res := s.db.Model(&models.User{}).Where("username = ?", strings.TrimSpace(username)).Update("hashed_password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Authenticate returns the user when the password matches.
func (s *Store) Authenticate(username, password string) (models.User, error) {
	user, err := s.FindUser(username)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// FindUser loads a user with its role.
func (s *Store) FindUser(username string) (models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	}
	return user, err
}

// SaveWorkout inserts or updates the workout keyed by user and file name.
func (s *Store) SaveWorkout(w *models.Workout) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "file_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "date", "clock_time", "mode", "start_location", "end_location",
			"total_time", "total_seconds", "distance_km", "pause", "calories", "source",
		}),
	}).Create(w).Error
}

// WorkoutFilter narrows workout queries. A nil UserID means every user.
type WorkoutFilter struct {
	UserID *uint
	Month  string // YYYY-MM prefix of the date column
	Limit  int
}

// ListWorkouts returns newest first.
func (s *Store) ListWorkouts(f WorkoutFilter) ([]models.Workout, error) {
	q := s.db.Model(&models.Workout{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Month != "" {
		q = q.Where("date LIKE ?", f.Month+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []models.Workout
	err := q.Order("date desc, id desc").Find(&out).Error
	return out, err
}

// CreateScreenshot records an uploaded image.
func (s *Store) CreateScreenshot(sc *models.Screenshot) error {
	return s.db.Create(sc).Error
}

// UpdateScreenshot saves linkage or failure state.
func (s *Store) UpdateScreenshot(sc *models.Screenshot) error {
	return s.db.Save(sc).Error
}

// RetryCandidates returns the screenshots whose OCR failed or whose workout
// has no total time, oldest first.
func (s *Store) RetryCandidates(userID *uint) ([]models.Screenshot, error) {
	empty := s.db.Model(&models.Workout{}).Select("id").Where("total_seconds = 0")
	q := s.db.Where("failed = ? OR workout_id IN (?)", true, empty)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var out []models.Screenshot
	err := q.Order("id").Find(&out).Error
	return out, err
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
