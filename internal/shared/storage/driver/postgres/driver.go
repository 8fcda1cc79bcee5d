// Package postgres PostgreSQL 数据库驱动
//
// 提供 PostgreSQL 连接管理和方言实现。
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"survey-admin/internal/shared/storage/dbutil"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect PostgreSQL 方言实现
type Dialect struct{}

var _ dbutil.Dialect = (*Dialect)(nil)

func (d *Dialect) DriverType() dbutil.DriverType {
	return dbutil.DriverPostgres
}

func (d *Dialect) Rebind(query string) string {
	return dbutil.RebindToPositional(query)
}

func (d *Dialect) CurrentTimestamp() string {
	return "NOW()"
}

func (d *Dialect) AutoMigrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Open 创建 PostgreSQL 数据库连接
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// NewDialect 创建 PostgreSQL 方言
func NewDialect() *Dialect {
	return &Dialect{}
}

// schema PostgreSQL 建表语句（等价于 SQLite schema）
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    username VARCHAR(120) NOT NULL UNIQUE,
    password_hash VARCHAR(120) NOT NULL,
    role VARCHAR(16) NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL,
    created_by VARCHAR(120),
    updated_at TIMESTAMPTZ,
    updated_by VARCHAR(120)
);

CREATE TABLE IF NOT EXISTS survey_responses (
    id VARCHAR(64) PRIMARY KEY,
    location TEXT,
    age_group TEXT,
    household_size TEXT,
    satisfaction TEXT,
    future_outlook TEXT,
    topics_housing TEXT,
    topics_security TEXT,
    topics_education TEXT,
    topics_traffic TEXT,
    topics_environment TEXT,
    topics_community TEXT,
    social_media_usage TEXT,
    facebook TEXT,
    instagram TEXT,
    tiktok TEXT,
    youtube TEXT,
    whatsapp TEXT,
    info_source_social TEXT,
    info_source_print TEXT,
    info_source_tv TEXT,
    info_source_newsletter TEXT,
    info_source_events TEXT,
    political_representation TEXT,
    kiezmacher_known TEXT,
    engagement_wish TEXT,
    future_wishes TEXT,
    created_at TIMESTAMPTZ NOT NULL,
    created_by VARCHAR(120) NOT NULL,
    updated_at TIMESTAMPTZ,
    updated_by VARCHAR(120),
    import_source VARCHAR(32)
);

CREATE INDEX IF NOT EXISTS idx_survey_responses_created_at ON survey_responses (created_at);
CREATE INDEX IF NOT EXISTS idx_survey_responses_location ON survey_responses (location);
CREATE INDEX IF NOT EXISTS idx_survey_responses_age_group ON survey_responses (age_group);
`
