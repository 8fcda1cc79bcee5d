package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrUserNotFound 指定的用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("username already exists")
	// ErrSelfDeletion 不允许删除当前登录账号
	ErrSelfDeletion = errors.New("cannot delete your own account")
	// ErrInvalidRole 角色不合法
	ErrInvalidRole = errors.New("invalid role")
)

// ============================================================================
// Service
// ============================================================================

// Service 用户管理的业务逻辑层，所有操作仅限管理员
type Service struct {
	store storage.UserStore
}

// NewService 创建用户管理服务
func NewService(store storage.UserStore) *Service {
	return &Service{store: store}
}

// List 返回全部用户（口令哈希不随 JSON 序列化输出）
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// Create 新建用户
func (s *Service) Create(ctx context.Context, username, password string, role model.UserRole, actor string) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           auth.GenerateID("usr"),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    actor,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update 修改用户名、角色，password 非空时重置口令
func (s *Service) Update(ctx context.Context, id, username, password string, role model.UserRole, actor string) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	// 改名时检查新用户名是否已被其他账号占用
	if username != u.Username {
		existing, err := s.store.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}
	}

	u.Username = username
	u.Role = role
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now().UTC()
	u.UpdatedBy = actor

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete 删除用户，目标是操作者自身时拒绝
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if u.Username == actor {
		return ErrSelfDeletion
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
