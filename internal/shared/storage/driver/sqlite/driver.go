// Package sqlite SQLite 数据库驱动
//
// 提供 SQLite 连接管理、方言实现和自动 Schema 迁移。
// 适用于开发、测试和轻量级部署场景。
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"survey-admin/internal/shared/storage/dbutil"

	_ "modernc.org/sqlite"
)

// Dialect SQLite 方言实现
type Dialect struct{}

var _ dbutil.Dialect = (*Dialect)(nil)

func (d *Dialect) DriverType() dbutil.DriverType {
	return dbutil.DriverSQLite
}

func (d *Dialect) Rebind(query string) string {
	return dbutil.RebindToQuestion(query)
}

func (d *Dialect) CurrentTimestamp() string {
	return "datetime('now')"
}

func (d *Dialect) AutoMigrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Open 创建 SQLite 数据库连接
// dsn 示例: "file:survey.db?cache=shared&mode=rwc" 或 ":memory:"
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// 内存数据库的每个连接各自独立，必须限制连接池为单连接
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// SQLite 优化设置
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	return db, nil
}

// NewDialect 创建 SQLite 方言
func NewDialect() *Dialect {
	return &Dialect{}
}

// schema SQLite 完整建表语句
const schema = `
-- users
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(64) PRIMARY KEY,
    username VARCHAR(120) NOT NULL UNIQUE,
    password_hash VARCHAR(120) NOT NULL,
    role VARCHAR(16) NOT NULL DEFAULT 'user',
    created_at DATETIME NOT NULL,
    created_by VARCHAR(120),
    updated_at DATETIME,
    updated_by VARCHAR(120)
);

-- survey_responses
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
    created_at DATETIME NOT NULL,
    created_by VARCHAR(120) NOT NULL,
    updated_at DATETIME,
    updated_by VARCHAR(120),
    import_source VARCHAR(32)
);

CREATE INDEX IF NOT EXISTS idx_survey_responses_created_at ON survey_responses (created_at);
CREATE INDEX IF NOT EXISTS idx_survey_responses_location ON survey_responses (location);
CREATE INDEX IF NOT EXISTS idx_survey_responses_age_group ON survey_responses (age_group);
`
