package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/pkg/constants"
	"nexora-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB and Redis for user operations.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type CreateUserInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// CreateUser creates a user with the viewer role. Returns the created model
// (caller sanitizes password_hash).
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, errors.New("Username is required and must be a non-empty string")
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, errors.New("Full name is required and must be a non-empty string")
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	fullname := titleCaseAndNormalize(trimmed)

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}
	if err := s.DB.WithContext(ctx).Where("user_name = ?", userName).First(&existing).Error; err == nil {
		return nil, errors.New("Username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     fullname,
		Role:         constants.Viewer,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser updates allowed fields: user_name, email, password, fullname.
func (s *Service) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errors.New("Invalid user ID format (must be a valid UUID)")
	}
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{
		"user_name": true, "email": true, "password": true, "fullname": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if p, ok := upd["password"].(string); ok && p != "" {
		if !validation.IsValidPassword(p) {
			return nil, errors.New("Invalid password format")
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(p), 10)
		upd["password_hash"] = string(hash)
		delete(upd, "password")
	}
	if fn, ok := upd["fullname"].(string); ok {
		trimmed := strings.TrimSpace(fn)
		if trimmed == "" {
			return nil, errors.New("Full name must be a non-empty string")
		}
		if !validation.IsValidFullname(trimmed) {
			return nil, errors.New("Full name contains invalid characters")
		}
		upd["fullname"] = titleCaseAndNormalize(trimmed)
	}
	if un, ok := upd["user_name"].(string); ok {
		upd["user_name"] = strings.TrimSpace(un)
	}

	if e, ok := upd["email"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("email = ? AND user_id != ?", e, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Email already registered")
		}
	}
	if un, ok := upd["user_name"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("user_name = ? AND user_id != ?", un, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Username already registered")
		}
	}

	result := s.DB.WithContext(ctx).Model(&domain.User{}).Where("user_id = ?", userID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("User not found")
	}

	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ViewUser returns user by ID.
func (s *Service) ViewUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all accounts for the admin screen.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order(`"created_at" ASC`).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type UpdateUserRoleInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	TargetRole   string
}

// UpdateUserRole updates target user's role after policy checks and destroys
// their sessions so the new role takes effect immediately.
func (s *Service) UpdateUserRole(ctx context.Context, in UpdateUserRoleInput) (*domain.User, error) {
	if !constants.IsValidRole(in.TargetRole) {
		return nil, errors.New("Invalid role")
	}
	if err := validateRoleAssignment(s.DB, in); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", in.TargetUserID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	u.Role = in.TargetRole
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return &u, nil
}

// RemoveUser deletes an account (soft delete) and destroys its sessions.
// Actors cannot remove themselves, and the last superadmin cannot be removed.
func (s *Service) RemoveUser(ctx context.Context, actorUserID, targetUserID string) error {
	if actorUserID == targetUserID {
		return errors.New("Users cannot remove themselves")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", targetUserID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New("User not found")
		}
		return err
	}
	if u.Role == constants.Superadmin {
		var count int64
		s.DB.WithContext(ctx).Model(&domain.User{}).Where("role = ?", constants.Superadmin).Count(&count)
		if count <= 1 {
			return errors.New("There must be at least one superadmin")
		}
	}
	if err := s.DB.WithContext(ctx).Delete(&u).Error; err != nil {
		return err
	}
	DestroyUserSessions(ctx, s.Rdb, targetUserID)
	return nil
}

func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	capitalize := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
