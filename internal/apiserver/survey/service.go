package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"survey-admin/internal/apiserver/auth"
	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrResponseNotFound 指定的问卷回答不存在
	ErrResponseNotFound = errors.New("survey response not found")
	// ErrNoData 没有可导出的数据
	ErrNoData = errors.New("no data to export")
	// ErrNotCSV 上传的文件不是 CSV
	ErrNotCSV = errors.New("file must be a CSV")
)

// ============================================================================
// Service
// ============================================================================

// Service 问卷回答的业务逻辑层
type Service struct {
	store   storage.ResponseStore
	headers HeaderMap
}

// NewService 创建问卷服务
func NewService(store storage.ResponseStore, headers HeaderMap) *Service {
	if headers == nil {
		headers = DefaultHeaderMap()
	}
	return &Service{store: store, headers: headers}
}

// List 返回全部问卷回答
func (s *Service) List(ctx context.Context) ([]*model.SurveyResponse, error) {
	responses, err := s.store.ListResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	if responses == nil {
		responses = []*model.SurveyResponse{}
	}
	return responses, nil
}

// Create 新建问卷回答并盖创建戳
func (s *Service) Create(ctx context.Context, resp *model.SurveyResponse, actor string) (string, error) {
	resp.ID = auth.GenerateID("resp")
	resp.CreatedAt = time.Now().UTC()
	resp.CreatedBy = actor
	resp.UpdatedAt = time.Time{}
	resp.UpdatedBy = ""

	if err := s.store.CreateResponse(ctx, resp); err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}
	return resp.ID, nil
}

// Update 整体替换问卷字段并盖更新戳
//
// 所有问卷字段以请求体为准（请求中缺失的字段被清空），
// 创建戳和导入来源保持不变。
func (s *Service) Update(ctx context.Context, id string, resp *model.SurveyResponse, actor string) error {
	existing, err := s.store.GetResponse(ctx, id)
	if err != nil {
		return fmt.Errorf("get response: %w", err)
	}
	if existing == nil {
		return ErrResponseNotFound
	}

	resp.ID = id
	resp.CreatedAt = existing.CreatedAt
	resp.CreatedBy = existing.CreatedBy
	resp.ImportSource = existing.ImportSource
	resp.UpdatedAt = time.Now().UTC()
	resp.UpdatedBy = actor

	if err := s.store.ReplaceResponse(ctx, resp); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResponseNotFound
		}
		return fmt.Errorf("replace response: %w", err)
	}
	return nil
}

// Delete 删除问卷回答
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteResponse(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResponseNotFound
		}
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

// ============================================================================
// 统计
// ============================================================================

// LocationCount 按地区分组的计数
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// AgeCount 按年龄段分组的计数
type AgeCount struct {
	AgeGroup string `json:"age_group"`
	Count    int64  `json:"count"`
}

// Stats 仪表盘统计数据
type Stats struct {
	TotalResponses       int64           `json:"total_responses"`
	LocationDistribution []LocationCount `json:"location_distribution"`
	AgeDistribution      []AgeCount      `json:"age_distribution"`
}

// GetStats 汇总仪表盘统计：总量 + 地区/年龄段分布（按计数降序）
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.store.CountResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}

	byLocation, err := s.store.GroupCountResponses(ctx, "location")
	if err != nil {
		return nil, fmt.Errorf("group by location: %w", err)
	}
	byAge, err := s.store.GroupCountResponses(ctx, "age_group")
	if err != nil {
		return nil, fmt.Errorf("group by age_group: %w", err)
	}

	stats := &Stats{
		TotalResponses:       total,
		LocationDistribution: make([]LocationCount, 0, len(byLocation)),
		AgeDistribution:      make([]AgeCount, 0, len(byAge)),
	}
	for _, vc := range byLocation {
		stats.LocationDistribution = append(stats.LocationDistribution, LocationCount{Location: vc.Value, Count: vc.Count})
	}
	for _, vc := range byAge {
		stats.AgeDistribution = append(stats.AgeDistribution, AgeCount{AgeGroup: vc.Value, Count: vc.Count})
	}
	return stats, nil
}
