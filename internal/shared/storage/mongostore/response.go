package mongostore

import (
	"context"
	"fmt"

	"survey-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ============================================================================
// ResponseStore
// ============================================================================

func (s *Store) CreateResponse(ctx context.Context, resp *model.SurveyResponse) error {
	return insertOne(ctx, s.col(ColSurveyResponses), resp)
}

func (s *Store) GetResponse(ctx context.Context, id string) (*model.SurveyResponse, error) {
	return findOne[model.SurveyResponse](ctx, s.col(ColSurveyResponses), bson.D{{Key: "_id", Value: id}})
}

// ListResponses 返回全部记录，MongoDB 的 natural order（实践上为插入序）
func (s *Store) ListResponses(ctx context.Context) ([]*model.SurveyResponse, error) {
	return findMany[model.SurveyResponse](ctx, s.col(ColSurveyResponses), bson.D{})
}

// ReplaceResponse 整体替换文档（非 $set 合并），旧文档中多余的键被移除
func (s *Store) ReplaceResponse(ctx context.Context, resp *model.SurveyResponse) error {
	return replaceByID(ctx, s.col(ColSurveyResponses), resp.ID, resp)
}

func (s *Store) DeleteResponse(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColSurveyResponses), id)
}

func (s *Store) CountResponses(ctx context.Context) (int64, error) {
	count, err := s.col(ColSurveyResponses).CountDocuments(ctx, bson.D{})
	return count, wrapError(err)
}

// groupableFields 允许分组统计的字段（防止任意字段进入聚合管道）
var groupableFields = map[string]bool{
	"location":  true,
	"age_group": true,
}

// GroupCountResponses 按字段值分组计数，按计数降序
//
// 聚合管道先过滤掉字段缺失/空串的文档，再 $group / $sort。
// 计数相同的值按字段值升序，保证输出稳定。
func (s *Store) GroupCountResponses(ctx context.Context, field string) ([]model.ValueCount, error) {
	if !groupableFields[field] {
		return nil, fmt.Errorf("ungroupable field: %s", field)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$exists", Value: true}, {Key: "$nin", Value: bson.A{nil, ""}}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := s.col(ColSurveyResponses).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	counts := []model.ValueCount{}
	for cursor.Next(ctx) {
		var vc model.ValueCount
		if err := cursor.Decode(&vc); err != nil {
			return nil, err
		}
		counts = append(counts, vc)
	}
	return counts, cursor.Err()
}
