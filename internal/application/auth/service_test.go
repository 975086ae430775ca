package auth

import (
	"testing"

	"nexora-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)
	u := domain.User{
		Fullname:     "Seed User",
		UserName:     "seed",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "viewer",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestLoginUser_MissingFields(t *testing.T) {
	db := setupAuthTest(t)
	_, err := LoginUser(db, LoginInput{})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db := setupAuthTest(t)
	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "pw"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupAuthTest(t)
	seedUser(t, db, "u@example.com", "Correct#Pass1")
	_, err := LoginUser(db, LoginInput{Email: "u@example.com", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestLoginUser_Success(t *testing.T) {
	db := setupAuthTest(t)
	seeded := seedUser(t, db, "u@example.com", "Correct#Pass1")
	u, err := LoginUser(db, LoginInput{Email: "u@example.com", Password: "Correct#Pass1"})
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, u.UserID)
}

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{"fullname": "Test"})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":  "550e8400-e29b-41d4-a716-446655440000",
		"fullname": "Test User",
		"email":    "test@example.com",
		"role":     "manager",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.UserID)
	assert.Equal(t, "manager", u.Role)
}
