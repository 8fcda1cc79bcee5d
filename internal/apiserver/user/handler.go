package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
)

// Handler 用户管理的 HTTP 接口，全部路由仅限管理员
type Handler struct {
	service *Service
}

// NewHandler 创建用户管理接口处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册用户管理路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", auth.AdminOnly(h.ListUsers))
	mux.HandleFunc("POST /api/users", auth.AdminOnly(h.CreateUser))
	mux.HandleFunc("PUT /api/users/{id}", auth.AdminOnly(h.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", auth.AdminOnly(h.DeleteUser))
}

// userRequest 创建/更新用户的请求体
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListUsers GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("[user] list users error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := h.service.Create(r.Context(), req.Username, req.Password, model.UserRole(req.Role), actorName(r))
	switch {
	case errors.Is(err, ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "role must be admin or user")
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already exists")
	case err != nil:
		log.Printf("[user] create user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		log.Printf("[user] Created user: %s (%s)", u.Username, u.ID)
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateUser PUT /api/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	u, err := h.service.Update(r.Context(), id, req.Username, req.Password, model.UserRole(req.Role), actorName(r))
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "role must be admin or user")
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already exists")
	case err != nil:
		log.Printf("[user] update user %s error: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, u)
	}
}

// DeleteUser DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.service.Delete(r.Context(), id, actorName(r))
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrSelfDeletion):
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
	case err != nil:
		log.Printf("[user] delete user %s error: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
	}
}

// ============================================================================
// 工具函数
// ============================================================================

// actorName 当前认证用户的用户名
func actorName(r *http.Request) string {
	if user := auth.GetAuthUser(r.Context()); user != nil {
		return user.Username
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
