package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"survey-admin/internal/shared/model"
	"survey-admin/internal/shared/storage"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	dbName := "survey_dashboard_test"
	s, err := NewStore(uri, dbName)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	// 清空测试数据库
	ctx := context.Background()
	if err := s.db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	// 重新创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

// Compile-time interface check
var _ storage.PersistentStore = (*Store)(nil)

func TestUserCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	user := &model.User{
		ID:           "usr-001",
		Username:     "admin",
		PasswordHash: "$2a$12$hash",
		Role:         model.UserRoleAdmin,
		CreatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// 用户名唯一索引
	dup := &model.User{ID: "usr-002", Username: "admin", PasswordHash: "x", Role: model.UserRoleUser, CreatedAt: now}
	if err := s.CreateUser(ctx, dup); err == nil {
		t.Fatal("Expected duplicate error")
	}

	got, err := s.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got == nil || got.ID != "usr-001" {
		t.Fatalf("GetUserByUsername = %+v, want usr-001", got)
	}

	// 大小写敏感
	miss, err := s.GetUserByUsername(ctx, "Admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if miss != nil {
		t.Errorf("Expected nil for case-mismatched username, got %+v", miss)
	}

	got.Role = model.UserRoleUser
	got.UpdatedAt = now.Add(time.Minute)
	got.UpdatedBy = "admin"
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	reloaded, err := s.GetUserByID(ctx, "usr-001")
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if reloaded.Role != model.UserRoleUser || reloaded.UpdatedBy != "admin" {
		t.Errorf("UpdateUser not applied: %+v", reloaded)
	}

	if err := s.DeleteUser(ctx, "usr-001"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := s.DeleteUser(ctx, "usr-001"); err != storage.ErrNotFound {
		t.Errorf("DeleteUser twice = %v, want ErrNotFound", err)
	}
}

func TestResponseReplaceRemovesStaleKeys(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	resp := &model.SurveyResponse{
		ID:        "resp-001",
		Location:  "Mitte",
		AgeGroup:  "18-29",
		CreatedAt: now,
		CreatedBy: "admin",
	}
	if err := s.CreateResponse(ctx, resp); err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	// 整体替换后，旧文档的 age_group 键应消失（ReplaceOne 而非 $set）
	replacement := &model.SurveyResponse{
		ID:        "resp-001",
		Location:  "Pankow",
		CreatedAt: now,
		CreatedBy: "admin",
		UpdatedAt: now.Add(time.Minute),
		UpdatedBy: "editor",
	}
	if err := s.ReplaceResponse(ctx, replacement); err != nil {
		t.Fatalf("ReplaceResponse: %v", err)
	}

	got, err := s.GetResponse(ctx, "resp-001")
	if err != nil {
		t.Fatalf("GetResponse: %v", err)
	}
	if got.AgeGroup != "" {
		t.Errorf("AgeGroup = %q, want removed after replace", got.AgeGroup)
	}
	if got.Location != "Pankow" || got.UpdatedBy != "editor" {
		t.Errorf("Replace not applied: %+v", got)
	}

	ghost := &model.SurveyResponse{ID: "resp-404", CreatedAt: now, CreatedBy: "x"}
	if err := s.ReplaceResponse(ctx, ghost); err != storage.ErrNotFound {
		t.Errorf("ReplaceResponse(missing) = %v, want ErrNotFound", err)
	}
}

func TestGroupCountResponses(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	locations := []string{"A", "A", "B", ""}
	for i, loc := range locations {
		resp := &model.SurveyResponse{
			ID:        "resp-00" + string(rune('1'+i)),
			Location:  loc,
			CreatedAt: now,
			CreatedBy: "admin",
		}
		if err := s.CreateResponse(ctx, resp); err != nil {
			t.Fatalf("CreateResponse: %v", err)
		}
	}

	total, err := s.CountResponses(ctx)
	if err != nil {
		t.Fatalf("CountResponses: %v", err)
	}
	if total != 4 {
		t.Errorf("CountResponses = %d, want 4", total)
	}

	counts, err := s.GroupCountResponses(ctx, "location")
	if err != nil {
		t.Fatalf("GroupCountResponses: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("len(counts) = %d, want 2 (empty excluded)", len(counts))
	}
	if counts[0].Value != "A" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v, want {A 2}", counts[0])
	}
	if counts[1].Value != "B" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v, want {B 1}", counts[1])
	}

	if _, err := s.GroupCountResponses(ctx, "created_by"); err == nil {
		t.Error("Expected error for ungroupable field")
	}
}
