// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包：
//   - auth: 登录与 JWT 认证
//   - survey: 问卷回答 CRUD、CSV 导入导出、统计
//   - user: 用户管理（仅限管理员）
//
// 本包自身只保留存活探针、健康检查和 Prometheus 指标。
package server

import (
	"net/http"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/apiserver/survey"
	"survey-admin/internal/apiserver/user"
	"survey-admin/internal/shared/storage"
	"survey-admin/pkg/logging"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责路由请求到对应的处理函数
// 并管理存储层连接。
type Handler struct {
	store      storage.PersistentStore
	authConfig auth.Config
	headers    survey.HeaderMap
	metrics    *Metrics
}

// apiMetrics 进程级指标实例，promauto 只允许注册一次
var apiMetrics = NewMetrics("survey_admin")

// NewHandler 创建 Handler 实例
//
// headers 为 nil 时使用内置的 CSV 表头映射。
func NewHandler(store storage.PersistentStore, authConfig auth.Config, headers survey.HeaderMap) *Handler {
	return &Handler{
		store:      store,
		authConfig: authConfig,
		headers:    headers,
		metrics:    apiMetrics,
	}
}

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 公开接口:
//   - GET  /          - 存活探针
//   - GET  /health    - 服务健康检查
//   - GET  /metrics   - Prometheus 指标
//   - POST /api/login - 登录
//
// 问卷回答（需登录）:
//   - GET    /api/survey-responses      - 列出全部回答
//   - POST   /api/survey-responses      - 新建回答
//   - PUT    /api/survey-responses/{id} - 整体替换回答
//   - DELETE /api/survey-responses/{id} - 删除回答
//   - POST   /api/import-csv            - 上传 CSV 批量导入
//   - GET    /api/export-csv            - 导出 CSV
//   - GET    /api/stats                 - 仪表盘统计
//
// 用户管理（需管理员）:
//   - GET    /api/users      - 列出用户
//   - POST   /api/users      - 新建用户
//   - PUT    /api/users/{id} - 更新用户
//   - DELETE /api/users/{id} - 删除用户
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 存活探针与健康检查
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// Auth 路由
	authHandler := auth.NewHandler(h.store, h.authConfig)
	authHandler.RegisterRoutes(mux)

	// 问卷路由
	surveyService := survey.NewService(h.store, h.headers)
	surveyHandler := survey.NewHandler(surveyService)
	surveyHandler.RegisterRoutes(mux)

	// 用户管理路由
	userHandler := user.NewHandler(user.NewService(h.store))
	userHandler.RegisterRoutes(mux)

	// 应用指标中间件到 REST API
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用认证中间件
	authedHandler := auth.Middleware(h.authConfig)(apiHandler)

	// 应用访问日志与 CORS 中间件
	return corsMiddleware(accessLogMiddleware(authedHandler))
}

// accessLog 结构化访问日志器
var accessLog = logging.Default("api-server")

// accessLogMiddleware 记录每个请求的方法、路径、状态码和耗时
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		accessLog.HTTPRequestLog(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), r.RemoteAddr)
	})
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
