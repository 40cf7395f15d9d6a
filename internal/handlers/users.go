package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/articotec/fieldgo/internal/utils"
)

// listUsers returns all user accounts
func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	var users []models.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUserRequest is the payload for creating a user account
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// createUser creates a new user account
func (r *Router) createUser(w http.ResponseWriter, req *http.Request) {
	var in CreateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Username == "" || in.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: in.Username,
		Password: hashed,
		Role:     in.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = "tecnico"
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusConflict, "Username already exists")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// updateUser edits an existing user account
func (r *Router) updateUser(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	var in struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		user.Password = hashed
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := r.db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// deleteUser deletes a user account. Users cannot delete themselves.
func (r *Router) deleteUser(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if actorID, ok := actorFromRequest(req); ok && actorID == id {
		respondError(w, http.StatusConflict, "Cannot delete your own account")
		return
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := r.db.Delete(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}
