package storage

import (
	"context"

	"survey-admin/internal/shared/model"
)

// UserStore 用户账号存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByID 按 ID 查找；不存在时返回 (nil, nil)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByUsername 精确（大小写敏感）用户名查找；不存在时返回 (nil, nil)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// ResponseStore 问卷回答存储接口
type ResponseStore interface {
	CreateResponse(ctx context.Context, resp *model.SurveyResponse) error
	// GetResponse 按 ID 查找；不存在时返回 (nil, nil)
	GetResponse(ctx context.Context, id string) (*model.SurveyResponse, error)
	// ListResponses 返回全部记录。顺序为存储原生序：
	// MongoDB 为插入序（natural order），SQL 驱动为 created_at 升序。
	ListResponses(ctx context.Context) ([]*model.SurveyResponse, error)
	// ReplaceResponse 整体替换记录字段（非部分合并），记录不存在时返回 ErrNotFound
	ReplaceResponse(ctx context.Context, resp *model.SurveyResponse) error
	DeleteResponse(ctx context.Context, id string) error

	CountResponses(ctx context.Context) (int64, error)
	// GroupCountResponses 按字段值分组计数，按计数降序；空值不参与统计。
	// field 仅接受 "location" 和 "age_group"。
	GroupCountResponses(ctx context.Context, field string) ([]model.ValueCount, error)
}

// PersistentStore 持久化存储的完整接口
type PersistentStore interface {
	UserStore
	ResponseStore
	Close() error
}
