package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// 种子账号及其初始口令，首次部署后应立即修改
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "secret"
	seedUserUsername  = "testuser"
	seedUserPassword  = "password123"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	store storage.UserStore
	cfg   Config
}

// NewHandler 创建认证处理器
func NewHandler(store storage.UserStore, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.Login)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 用户登录
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, role, err := Authenticate(r.Context(), h.store, h.cfg, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		log.Printf("[auth.login] Authenticate error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User logged in: %s", req.Username)
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        string(role),
	})
}

// ============================================================================
// Seed Bootstrap
// ============================================================================

// EnsureSeedUsers 确保种子账号存在（启动时调用）
//
// 仅当数据库中不存在名为 admin 的账号时创建两个种子账号：
// admin（管理员）和 testuser（普通用户）。幂等：靠存在性检查保护，
// 每个部署生命周期内最多执行一次。
func EnsureSeedUsers(store storage.UserStore) error {
	ctx := context.Background()

	existing, err := store.GetUserByUsername(ctx, seedAdminUsername)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	seeds := []struct {
		username string
		password string
		role     model.UserRole
	}{
		{seedAdminUsername, seedAdminPassword, model.UserRoleAdmin},
		{seedUserUsername, seedUserPassword, model.UserRoleUser},
	}

	now := time.Now()
	for _, seed := range seeds {
		hash, err := HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		user := &model.User{
			ID:           GenerateID("usr"),
			Username:     seed.username,
			PasswordHash: hash,
			Role:         seed.role,
			CreatedAt:    now,
			CreatedBy:    "bootstrap",
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create seed user %s: %w", seed.username, err)
		}
		log.Printf("[auth] Created seed user: %s (%s)", user.Username, user.ID)
	}
	return nil
}

// ============================================================================
// 工具函数
// ============================================================================

// GenerateID 生成 prefix-xxxxxxxxxxxx 形式的随机 ID
func GenerateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
