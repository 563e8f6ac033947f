package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/utils"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

// AuthHandler serves signup and login.
type AuthHandler struct {
	DB *gorm.DB
}

// POST /signup/
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Username == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Email uniqueness is an application check; the schema does not enforce it.
	var existing models.User
	err := h.DB.Where("email = ?", input.Email).First(&existing).Error
	switch {
	case err == nil:
		utils.JSONError(w, http.StatusBadRequest, "Email already exists.")
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// new account
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
		return
	}

	hashed, err := services.HashPassword(input.Password)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:           input.Email,
		Username:        input.Username,
		Password:        hashed,
		AccessToken:     utils.NewAccessToken(),
		TokenExpireDate: time.Now().Add(tokenLifetime),
		CreatedAt:       time.Now(),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Email or username already exists.")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "User signed up successfully!",
		Data:    user.Response(),
	})
}

// POST /login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", input.Email).First(&user).Error
	switch {
	case err == nil:
		// user found
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !services.CheckPassword(user.Password, input.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	// Rotate the token. The freshly issued pair is the only valid one from
	// here on; concurrent logins race with last-write-wins semantics.
	user.AccessToken = utils.NewAccessToken()
	user.TokenExpireDate = time.Now().Add(tokenLifetime)
	if err := h.DB.Save(&user).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "User login successfully!",
		Data:    user.Response(),
	})
}
