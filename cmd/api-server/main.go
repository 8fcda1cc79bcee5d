// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/apiserver/server"
	"survey-admin/internal/apiserver/survey"
	"survey-admin/internal/config"
	"survey-admin/internal/shared/storage"
	"survey-admin/internal/shared/storage/driver/postgres"
	"survey-admin/internal/shared/storage/driver/sqlite"
	"survey-admin/internal/shared/storage/mongostore"
	"survey-admin/internal/shared/storage/repository"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换配置文件）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	// 初始化存储层
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage (%s): %v", cfg.Database.Driver, err)
	}
	defer store.Close()
	log.Printf("Connected to %s", cfg.Database.Driver)

	// 初始化种子账号
	if err := auth.EnsureSeedUsers(store); err != nil {
		log.Fatalf("Failed to ensure seed users: %v", err)
	}

	// 加载 CSV 表头映射（可选的外部覆盖文件）
	headers, err := loadHeaderMap(cfg)
	if err != nil {
		log.Fatalf("Failed to load CSV header map: %v", err)
	}

	authCfg := auth.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	}
	h := server.NewHandler(store, authCfg, headers)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}

// openStore 按配置选择存储驱动
func openStore(cfg *config.Config) (storage.PersistentStore, error) {
	switch cfg.Database.Driver {
	case "mongodb":
		return mongostore.NewStore(cfg.Database.MongoURI, cfg.Database.MongoDB)
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.SQLite)
		if err != nil {
			return nil, err
		}
		dialect := sqlite.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewStore(db, dialect), nil
	case "postgres":
		db, err := postgres.Open(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		dialect := postgres.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewStore(db, dialect), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

// loadHeaderMap 加载 CSV 表头映射，未配置外部文件时使用内置默认值
func loadHeaderMap(cfg *config.Config) (survey.HeaderMap, error) {
	if cfg.CSV.ColumnsFile == "" {
		return survey.DefaultHeaderMap(), nil
	}
	return survey.LoadHeaderMap(cfg.CSV.ColumnsFile)
}
