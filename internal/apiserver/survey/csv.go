package survey

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
)

// ============================================================================
// CSV 导入
// ============================================================================

// ImportCSV 从 CSV 文件批量导入问卷回答，返回导入条数
//
// 文件为分号分隔，表头按 HeaderMap 映射到问卷字段。
// 只导入 location 非空且不为 "N/A" 的行，其余行静默跳过。
func (s *Service) ImportCSV(ctx context.Context, filename string, r io.Reader, actor string) (int, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return 0, ErrNotCSV
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	// 表头列名 → 列下标
	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[name] = i
	}

	imported := 0
	now := time.Now().UTC()
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read csv row: %w", err)
		}

		// 同一批次内时间戳按行递增，列表顺序才能与文件行序一致
		resp := &model.SurveyResponse{
			CreatedAt:    now.Add(time.Duration(imported) * time.Microsecond),
			CreatedBy:    actor,
			ImportSource: model.ImportSourceCSV,
		}
		for _, field := range model.AnswerFields {
			idx, ok := columnIndex[s.headers[field]]
			if !ok || idx >= len(row) {
				continue
			}
			resp.SetAnswer(field, row[idx])
		}

		// 地区为空或 N/A 的行视为无效数据
		if resp.Location == "" || resp.Location == "N/A" {
			continue
		}

		resp.ID = auth.GenerateID("resp")
		if err := s.store.CreateResponse(ctx, resp); err != nil {
			return imported, fmt.Errorf("insert imported response: %w", err)
		}
		imported++
	}
	return imported, nil
}

// ============================================================================
// CSV 导出
// ============================================================================

// ExportCSV 将全部问卷回答导出为逗号分隔的 CSV 文本
//
// 表头取第一条记录实际带值的列（问卷字段按规范顺序），
// 之后的记录只输出表头里出现的列。没有数据时返回 ErrNoData。
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	responses, err := s.store.ListResponses(ctx)
	if err != nil {
		return "", fmt.Errorf("list responses: %w", err)
	}
	if len(responses) == 0 {
		return "", ErrNoData
	}

	header := exportHeader(responses[0])

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, resp := range responses {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = exportValue(resp, col)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// exportHeader 由第一条记录推导导出列
func exportHeader(first *model.SurveyResponse) []string {
	header := []string{"id"}
	for _, field := range model.AnswerFields {
		if first.Answer(field) != "" {
			header = append(header, field)
		}
	}
	header = append(header, "created_at", "created_by")
	if !first.UpdatedAt.IsZero() {
		header = append(header, "updated_at")
	}
	if first.UpdatedBy != "" {
		header = append(header, "updated_by")
	}
	if first.ImportSource != "" {
		header = append(header, "import_source")
	}
	return header
}

func exportValue(resp *model.SurveyResponse, column string) string {
	switch column {
	case "id":
		return resp.ID
	case "created_at":
		return resp.CreatedAt.Format(time.RFC3339)
	case "created_by":
		return resp.CreatedBy
	case "updated_at":
		if resp.UpdatedAt.IsZero() {
			return ""
		}
		return resp.UpdatedAt.Format(time.RFC3339)
	case "updated_by":
		return resp.UpdatedBy
	case "import_source":
		return resp.ImportSource
	default:
		return resp.Answer(column)
	}
}
