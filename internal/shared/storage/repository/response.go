package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// responseColumns survey_responses 的完整列序：
// id + 问卷字段（model.AnswerFields 的规范顺序）+ 溯源字段
var responseColumns = func() []string {
	cols := []string{"id"}
	cols = append(cols, model.AnswerFields...)
	return append(cols, "created_at", "created_by", "updated_at", "updated_by", "import_source")
}()

// placeholders 生成 "$1, $2, ..., $n"
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// responseArgs 按 responseColumns 顺序展开插入参数
func responseArgs(r *model.SurveyResponse) []any {
	args := []any{r.ID}
	for _, f := range model.AnswerFields {
		args = append(args, nullString(r.Answer(f)))
	}
	return append(args,
		r.CreatedAt, r.CreatedBy,
		nullTime(r.UpdatedAt), nullString(r.UpdatedBy), nullString(r.ImportSource))
}

// scanResponse 按 responseColumns 顺序扫描一行
func scanResponse(scan func(dest ...any) error) (*model.SurveyResponse, error) {
	r := &model.SurveyResponse{}
	answers := make([]sql.NullString, len(model.AnswerFields))
	var updatedAt sql.NullTime
	var updatedBy, importSource sql.NullString

	dest := []any{&r.ID}
	for i := range answers {
		dest = append(dest, &answers[i])
	}
	dest = append(dest, &r.CreatedAt, &r.CreatedBy, &updatedAt, &updatedBy, &importSource)

	if err := scan(dest...); err != nil {
		return nil, err
	}
	for i, f := range model.AnswerFields {
		r.SetAnswer(f, answers[i].String)
	}
	r.UpdatedAt = updatedAt.Time
	r.UpdatedBy = updatedBy.String
	r.ImportSource = importSource.String
	return r, nil
}

// CreateResponse 插入问卷记录
func (s *Store) CreateResponse(ctx context.Context, resp *model.SurveyResponse) error {
	query := fmt.Sprintf(`INSERT INTO survey_responses (%s) VALUES (%s)`,
		strings.Join(responseColumns, ", "), placeholders(len(responseColumns)))
	_, err := s.db.ExecContext(ctx, s.rebind(query), responseArgs(resp)...)
	return wrapError(err)
}

// GetResponse 按 ID 查找；不存在时返回 (nil, nil)
func (s *Store) GetResponse(ctx context.Context, id string) (*model.SurveyResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM survey_responses WHERE id = $1`,
		strings.Join(responseColumns, ", "))
	row := s.db.QueryRowContext(ctx, s.rebind(query), id)
	resp, err := scanResponse(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}

// ListResponses 返回全部记录，按 created_at 升序（SQL 驱动的存储原生序）
func (s *Store) ListResponses(ctx context.Context) ([]*model.SurveyResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM survey_responses ORDER BY created_at ASC, id ASC`,
		strings.Join(responseColumns, ", "))
	rows, err := s.db.QueryContext(ctx, s.rebind(query))
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	responses := []*model.SurveyResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows.Scan)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ReplaceResponse 整体替换记录字段；不存在时返回 storage.ErrNotFound
func (s *Store) ReplaceResponse(ctx context.Context, resp *model.SurveyResponse) error {
	// id 之后的列全部重写（created_* 由服务层从旧记录保留）
	sets := make([]string, 0, len(responseColumns)-1)
	for i, col := range responseColumns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	query := fmt.Sprintf(`UPDATE survey_responses SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(responseColumns))

	args := responseArgs(resp)[1:]
	args = append(args, resp.ID)

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
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

// DeleteResponse 删除记录；不存在时返回 storage.ErrNotFound
func (s *Store) DeleteResponse(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM survey_responses WHERE id = $1`), id)
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

// CountResponses 记录总数
func (s *Store) CountResponses(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey_responses`).Scan(&count)
	return count, wrapError(err)
}

// groupableFields 允许分组统计的字段（防止拼接任意列名）
var groupableFields = map[string]bool{
	"location":  true,
	"age_group": true,
}

// GroupCountResponses 按字段值分组计数，按计数降序；NULL 和空串不参与统计
func (s *Store) GroupCountResponses(ctx context.Context, field string) ([]model.ValueCount, error) {
	if !groupableFields[field] {
		return nil, fmt.Errorf("ungroupable field: %s", field)
	}
	query := fmt.Sprintf(
		`SELECT %s, COUNT(*) AS cnt FROM survey_responses
		 WHERE %s IS NOT NULL AND %s != ''
		 GROUP BY %s ORDER BY cnt DESC, %s ASC`,
		field, field, field, field, field)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapError(err)
	}
	defer rows.Close()

	counts := []model.ValueCount{}
	for rows.Next() {
		var vc model.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, vc)
	}
	return counts, rows.Err()
}
