package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// Valid 角色是否合法
func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

// User 用户账号
//
// Username 是大小写敏感的唯一标识，存储层通过唯一索引保证唯一性。
type User struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Username     string    `json:"username" bson:"username" db:"username"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"` // never expose in JSON
	Role         UserRole  `json:"role" bson:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty" bson:"created_by,omitempty" db:"created_by"`
	UpdatedAt    time.Time `json:"updated_at,omitzero" bson:"updated_at,omitempty" db:"updated_at"`
	UpdatedBy    string    `json:"updated_by,omitempty" bson:"updated_by,omitempty" db:"updated_by"`
}
