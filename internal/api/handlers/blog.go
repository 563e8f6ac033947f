package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lonnieqin/chatapi/internal/api/middleware"
	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/utils"
	"gorm.io/gorm"
)

// BlogHandler serves the first-generation blog table (integer ids). Write
// endpoints run behind the API_KEY middleware; the handler still verifies the
// token's owner against the user id the body declares and, for mutations,
// against the stored row's owner.
type BlogHandler struct {
	DB *gorm.DB
}

// POST /blogs/
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID  uint   `json:"user_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil || user.ID != input.UserID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	blog := models.Blog{
		UserID:    input.UserID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: time.Now(),
	}
	if err := h.DB.Create(&blog).Error; err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Database integrity error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog created successfully",
		Data:    blog,
	})
}

// POST /blogs/edit/
func (h *BlogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID      uint   `json:"id"`
		UserID  uint   `json:"user_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil || user.ID != input.UserID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var blog models.Blog
	err := h.DB.First(&blog, input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	// Ownership check happens before any mutation.
	if blog.UserID != user.ID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	blog.Title = input.Title
	blog.Content = input.Content
	blog.CreatedAt = time.Now()
	if err := h.DB.Save(&blog).Error; err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Database integrity error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog updated successfully",
		Data:    blog,
	})
}

// POST /blogs/delete/
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID     uint `json:"id"`
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil || user.ID != input.UserID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var blog models.Blog
	err := h.DB.First(&blog, input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if blog.UserID != user.ID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.DB.Delete(&blog).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog deleted successfully",
		Data:    blog,
	})
}

// POST /blogs/user/{user_id}
func (h *BlogHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("user_id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var blogs []models.Blog
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&blogs).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(blogs) == 0 {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blogs retrieved successfully",
		Data:    blogs,
	})
}

// POST /blogs/{blog_id}
func (h *BlogHandler) ByID(w http.ResponseWriter, r *http.Request) {
	blogID, err := strconv.ParseUint(r.PathValue("blog_id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid blog id")
		return
	}

	var blog models.Blog
	err = h.DB.First(&blog, blogID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog retrieved successfully",
		Data:    blog,
	})
}

// POST /all_blogs/
func (h *BlogHandler) All(w http.ResponseWriter, r *http.Request) {
	var blogs []models.Blog
	if err := h.DB.Order("created_at desc").Find(&blogs).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(blogs) == 0 {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blogs retrieved successfully",
		Data:    blogs,
	})
}
