// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（JWT 密钥、数据库密码）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CSV      CSVConfig      `yaml:"csv"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig 存储配置
//
// driver: mongodb（默认，与上游部署一致） | sqlite | postgres
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
	SQLite   string `yaml:"sqlite_dsn"`
	Postgres string `yaml:"postgres_url"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret      string        `yaml:"-"` // 从 JWT_SECRET 环境变量读取
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

// CSVConfig CSV 导入配置
type CSVConfig struct {
	// ColumnsFile 外部表头映射表路径（字段名 → 问卷导出表头）。
	// 为空时使用编译进二进制的默认映射。
	ColumnsFile string `yaml:"columns_file"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env      Environment
	APIPort  string
	Database DatabaseConfig
	Auth     AuthConfig
	CSV      CSVConfig
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 环境变量覆盖数据库连接与密钥
func Load() *Config {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	cfg := &Config{
		Env:      env,
		APIPort:  getEnv("API_PORT", yamlCfg.Server.Port),
		Database: yamlCfg.Database,
		Auth:     yamlCfg.Auth,
		CSV:      yamlCfg.CSV,
	}

	// 敏感信息与连接串允许环境变量覆盖
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "change-me-in-production")
	cfg.Database.MongoURI = getEnv("MONGODB_URI", cfg.Database.MongoURI)
	cfg.Database.Postgres = getEnv("DATABASE_URL", cfg.Database.Postgres)
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}

	cfg.validate()
	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server: ServerConfig{Port: "8000"},
		Database: DatabaseConfig{
			Driver:   "mongodb",
			MongoURI: "mongodb://localhost:27017",
			MongoDB:  "survey_dashboard",
			SQLite:   "file:survey.db?cache=shared&mode=rwc",
		},
		Auth: AuthConfig{AccessTokenTTL: 30 * time.Minute},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// validate 填充缺失的默认值
func (c *Config) validate() {
	if c.APIPort == "" {
		c.APIPort = "8000"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mongodb"
	}
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 30 * time.Minute
	}
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	target := c.Database.MongoURI
	switch c.Database.Driver {
	case "sqlite":
		target = c.Database.SQLite
	case "postgres":
		target = c.Database.Postgres
	}
	return fmt.Sprintf("Config{Env: %s, Driver: %s, DB: %s, TokenTTL: %s}",
		c.Env, c.Database.Driver, maskPassword(target), c.Auth.AccessTokenTTL)
}

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	re := regexp.MustCompile(`(://[^:/@]+:)([^@]+)(@)`)
	return re.ReplaceAllString(url, "${1}***${3}")
}
