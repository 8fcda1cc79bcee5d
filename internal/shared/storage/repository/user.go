package repository

import (
	"context"
	"database/sql"

	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// CreateUser 创建用户；用户名重复时返回 storage.ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO users (id, username, password_hash, role, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		user.ID, user.Username, user.PasswordHash, user.Role,
		user.CreatedAt, nullString(user.CreatedBy), nullTime(user.UpdatedAt), nullString(user.UpdatedBy),
	)
	return wrapError(err)
}

// GetUserByID 通过 ID 查找用户；不存在时返回 (nil, nil)
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, role, created_at, created_by, updated_at, updated_by
		 FROM users WHERE id = $1`, id)
}

// GetUserByUsername 通过用户名精确查找用户；不存在时返回 (nil, nil)
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, role, created_at, created_by, updated_at, updated_by
		 FROM users WHERE username = $1`, username)
}

func (s *Store) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	u := &model.User{}
	var createdBy, updatedBy sql.NullString
	var updatedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &createdBy, &updatedAt, &updatedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	u.CreatedBy = createdBy.String
	u.UpdatedBy = updatedBy.String
	u.UpdatedAt = updatedAt.Time
	return u, nil
}

// ListUsers 列出所有用户，按创建时间升序
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, username, password_hash, role, created_at, created_by, updated_at, updated_by
		 FROM users ORDER BY created_at ASC, id ASC`))
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u := &model.User{}
		var createdBy, updatedBy sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &createdBy, &updatedAt, &updatedBy); err != nil {
			return nil, err
		}
		u.CreatedBy = createdBy.String
		u.UpdatedBy = updatedBy.String
		u.UpdatedAt = updatedAt.Time
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser 整体更新用户；不存在时返回 storage.ErrNotFound
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE users SET username = $1, password_hash = $2, role = $3, updated_at = $4, updated_by = $5
		 WHERE id = $6`),
		user.Username, user.PasswordHash, user.Role,
		nullTime(user.UpdatedAt), nullString(user.UpdatedBy), user.ID,
	)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser 删除用户；不存在时返回 storage.ErrNotFound
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE id = $1`), id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
