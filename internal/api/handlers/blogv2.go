package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lonnieqin/chatapi/internal/api/middleware"
	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/utils"
	"gorm.io/gorm"
)

// BlogV2Handler mirrors BlogHandler for the UUID-keyed second-generation
// table. Both generations stay routable; clients migrate at their own pace.
type BlogV2Handler struct {
	DB *gorm.DB
}

// POST /blogs/v2/
func (h *BlogV2Handler) Create(w http.ResponseWriter, r *http.Request) {
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

	blog := models.BlogV2{
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

// fetchOwned loads a v2 row and enforces the ownership chain: token user ==
// declared user == stored owner. It writes the error response itself and
// returns nil when the caller should stop.
func (h *BlogV2Handler) fetchOwned(w http.ResponseWriter, r *http.Request, id uuid.UUID, declaredUser uint) *models.BlogV2 {
	user := middleware.UserFromContext(r.Context())
	if user == nil || user.ID != declaredUser {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}

	var blog models.BlogV2
	err := h.DB.Where("id = ?", id).First(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONError(w, http.StatusNotFound, "Blog not found")
		return nil
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	if blog.UserID != user.ID {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	return &blog
}

// POST /blogs/v2/edit/
func (h *BlogV2Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID      uuid.UUID `json:"id"`
		UserID  uint      `json:"user_id"`
		Title   string    `json:"title"`
		Content string    `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	blog := h.fetchOwned(w, r, input.ID, input.UserID)
	if blog == nil {
		return
	}

	blog.Title = input.Title
	blog.Content = input.Content
	blog.CreatedAt = time.Now()
	if err := h.DB.Save(blog).Error; err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Database integrity error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog updated successfully",
		Data:    blog,
	})
}

// POST /blogs/v2/delete/
func (h *BlogV2Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID     uuid.UUID `json:"id"`
		UserID uint      `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	blog := h.fetchOwned(w, r, input.ID, input.UserID)
	if blog == nil {
		return
	}

	if err := h.DB.Delete(blog).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "Blog deleted successfully",
		Data:    blog,
	})
}

// POST /blogs/v2/user/{user_id}
func (h *BlogV2Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("user_id"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var blogs []models.BlogV2
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

// POST /blogs/v2/{blog_id}
func (h *BlogV2Handler) ByID(w http.ResponseWriter, r *http.Request) {
	blogID, err := uuid.Parse(r.PathValue("blog_id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid blog id")
		return
	}

	var blog models.BlogV2
	err = h.DB.Where("id = ?", blogID).First(&blog).Error
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
