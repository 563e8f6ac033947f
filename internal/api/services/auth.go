package services

import (
	"errors"

	"github.com/lonnieqin/chatapi/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authenticator validates access tokens against the user table. Every call is
// a single read-only query; there is no caching and no session state beyond
// the token column itself.
type Authenticator struct {
	db *gorm.DB
}

func NewAuthenticator(db *gorm.DB) *Authenticator {
	return &Authenticator{db: db}
}

// Authenticate looks up the composite (user id, access token) pair. A nil
// user with a nil error means the pair does not match; the caller decides
// whether that is a 401 or a 404.
func (a *Authenticator) Authenticate(userID uint, accessToken string) (*models.User, error) {
	var user models.User
	err := a.db.Where("user_id = ? AND access_token = ?", userID, accessToken).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

// AuthenticateWithAPIKey resolves a bearer token alone, for endpoints where
// the caller does not separately declare a user id. Same null-case contract
// as Authenticate.
func (a *Authenticator) AuthenticateWithAPIKey(accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, nil
	}
	var user models.User
	err := a.db.Where("access_token = ?", accessToken).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

// HashPassword produces the one-way digest stored in the password column.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
