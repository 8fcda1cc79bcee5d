package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
)

// maxUploadSize CSV 上传大小上限
const maxUploadSize = 16 << 20 // 16 MiB

// Handler 问卷回答的 HTTP 接口
type Handler struct {
	service *Service
}

// NewHandler 创建问卷接口处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes 注册问卷相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/survey-responses", h.ListResponses)
	mux.HandleFunc("POST /api/survey-responses", h.CreateResponse)
	mux.HandleFunc("PUT /api/survey-responses/{id}", h.UpdateResponse)
	mux.HandleFunc("DELETE /api/survey-responses/{id}", h.DeleteResponse)
	mux.HandleFunc("POST /api/import-csv", h.ImportCSV)
	mux.HandleFunc("GET /api/export-csv", h.ExportCSV)
	mux.HandleFunc("GET /api/stats", h.GetStats)
}

// ListResponses GET /api/survey-responses
func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("[survey] list responses error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateResponse POST /api/survey-responses
func (h *Handler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	var resp model.SurveyResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.service.Create(r.Context(), &resp, actorName(r))
	if err != nil {
		log.Printf("[survey] create response error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      id,
		"message": "Survey response created successfully",
	})
}

// UpdateResponse PUT /api/survey-responses/{id}
func (h *Handler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var resp model.SurveyResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.Update(r.Context(), id, &resp, actorName(r))
	switch {
	case errors.Is(err, ErrResponseNotFound):
		writeError(w, http.StatusNotFound, "Survey response not found")
	case err != nil:
		log.Printf("[survey] update response %s error: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Survey response updated successfully"})
	}
}

// DeleteResponse DELETE /api/survey-responses/{id}
func (h *Handler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.service.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrResponseNotFound):
		writeError(w, http.StatusNotFound, "Survey response not found")
	case err != nil:
		log.Printf("[survey] delete response %s error: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Survey response deleted successfully"})
	}
}

// ImportCSV POST /api/import-csv
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	count, err := h.service.ImportCSV(r.Context(), fileHeader.Filename, file, actorName(r))
	switch {
	case errors.Is(err, ErrNotCSV):
		writeError(w, http.StatusBadRequest, "File must be a CSV")
	case err != nil:
		log.Printf("[survey] import csv error: %v", err)
		writeError(w, http.StatusBadRequest, "Error importing CSV")
	default:
		log.Printf("[survey] Imported %d responses from %s", count, fileHeader.Filename)
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Successfully imported %d survey responses", count),
		})
	}
}

// ExportCSV GET /api/export-csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	csvData, err := h.service.ExportCSV(r.Context())
	switch {
	case errors.Is(err, ErrNoData):
		writeError(w, http.StatusNotFound, "No data to export")
	case err != nil:
		log.Printf("[survey] export csv error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		w.Header().Set("Content-Disposition", "attachment; filename=survey_export.csv")
		writeJSON(w, http.StatusOK, map[string]string{"csv_data": csvData})
	}
}

// GetStats GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		log.Printf("[survey] stats error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ============================================================================
// 工具函数
// ============================================================================

// actorName 当前认证用户的用户名，用于操作盖戳
func actorName(r *http.Request) string {
	if user := auth.GetAuthUser(r.Context()); user != nil {
		return user.Username
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
