package user

import (
	"context"
	"errors"

	"nexora-backend/internal/domain"
	"nexora-backend/internal/middleware"
	"nexora-backend/internal/pkg/constants"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrOnlySuperadminsCanAssignAdminOrSuperadmin = errors.New("Only superadmins can assign admin or superadmin roles")
	ErrUsersCannotModifyTheirOwnRole             = errors.New("Users cannot modify their own role")
	ErrMustHaveAtLeastOneSuperadmin              = errors.New("There must be at least one superadmin")
	ErrTargetUserNotFound                        = errors.New("Target user not found")
)

// validateRoleAssignment enforces the role governance rules before a role change.
func validateRoleAssignment(db *gorm.DB, in UpdateUserRoleInput) error {
	if (in.TargetRole == constants.Admin || in.TargetRole == constants.Superadmin) &&
		in.ActorRole != constants.Superadmin {
		return ErrOnlySuperadminsCanAssignAdminOrSuperadmin
	}
	var target domain.User
	if err := db.Where("user_id = ?", in.TargetUserID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrTargetUserNotFound
		}
		return err
	}
	if in.ActorUserID == in.TargetUserID && in.ActorRole != constants.Superadmin {
		return ErrUsersCannotModifyTheirOwnRole
	}
	// Prevent last superadmin downgrade
	if target.Role == constants.Superadmin && in.TargetRole != constants.Superadmin {
		var count int64
		db.Model(&domain.User{}).Where("role = ?", constants.Superadmin).Count(&count)
		if count <= 1 {
			return ErrMustHaveAtLeastOneSuperadmin
		}
	}
	return nil
}

// TrackUserSession records a session id against the user so every session can
// be destroyed on role change or removal.
func TrackUserSession(ctx context.Context, rdb *redis.Client, userID, sessionID string) {
	if userID == "" || sessionID == "" {
		return
	}
	rdb.SAdd(ctx, "user_sessions:"+userID, sessionID)
}

// DestroyUserSessions deletes every tracked session for the user.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if userID == "" || rdb == nil {
		return
	}
	key := "user_sessions:" + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err != nil || len(sessionIDs) == 0 {
		rdb.Del(ctx, key)
		return
	}
	for _, sid := range sessionIDs {
		rdb.Del(ctx, middleware.SessionRedisPrefix+sid)
	}
	rdb.Del(ctx, key)
}
