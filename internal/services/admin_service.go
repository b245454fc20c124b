package services

import (
	"context"
	"log"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/store/internal/models"
	"github.com/example/store/internal/utils"
	"github.com/example/store/internal/validation"
)

// AdminService manages staff accounts for the admin API.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService constructs AdminService.
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type adminInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

// Create registers a new active admin account.
func (s *AdminService) Create(ctx context.Context, username, password string) (*models.AdminUser, error) {
	in := adminInput{Username: strings.TrimSpace(username), Password: password}

	errs := validation.Struct(in)
	if _, bad := errs["username"]; !bad {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).
			Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return nil, errors.Wrap(err, "check username")
		}
		if count > 0 {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	admin := &models.AdminUser{
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, errors.Wrap(err, "create admin")
	}

	log.Printf("[Admin] created admin %s", admin.Username)
	return admin, nil
}

// Authenticate checks a username and password pair of an active admin.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "load admin")
	}

	if !admin.IsActive || !utils.CheckPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &admin, nil
}

// Active returns the admin with id when the account is still active.
func (s *AdminService) Active(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.WithContext(ctx).First(&admin, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "admin %s", id)
		}
		return nil, errors.Wrap(err, "load admin")
	}
	return &admin, nil
}
