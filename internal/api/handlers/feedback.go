package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/utils"
	"gorm.io/gorm"
)

// FeedbackHandler serves unauthenticated feedback submission and read-back.
type FeedbackHandler struct {
	DB *gorm.DB
}

// POST /feedback/
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID  uint   `json:"user_id"`
		Contact string `json:"contact"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	feedback := models.Feedback{
		UserID:    input.UserID,
		Contact:   input.Contact,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: time.Now(),
	}
	if err := h.DB.Create(&feedback).Error; err != nil {
		utils.JSONError(w, http.StatusBadRequest, "")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Successfully Submit feedback",
		Data:    feedback,
	})
}

// POST /feedback/user/{user_id}
func (h *FeedbackHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("user_id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var feedbacks []models.Feedback
	if err := h.DB.Where("user_id = ?", userID).Find(&feedbacks).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Error retrieving feedbacks")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Successfully retrieved feedbacks",
		Data:    feedbacks,
	})
}
