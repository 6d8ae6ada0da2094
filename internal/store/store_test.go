package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ricesearch/rank-eval/internal/config"
	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

func sampleResult(id string) *rankeval.EvaluationResult {
	r := rankeval.NewEvaluationResult(id, 0.2, []rankeval.DocumentKey{
		rankeval.NewDocumentKey("docs", "7"),
		rankeval.NewDocumentKey("docs", "9"),
	})
	r.AttachBreakdown(rankeval.NewBreakdown(rankeval.NewPrecisionBreakdown(1, 5)))
	return r
}

func testStorage(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	if err := storage.Save(ctx, "q1", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := storage.Save(ctx, "q0", []byte{4}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := storage.Load(ctx, "q1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(data, []byte{1, 2, 3}) {
		t.Errorf("Load = %v, want [1 2 3]", data)
	}

	// Overwrite
	if err := storage.Save(ctx, "q1", []byte{5}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ = storage.Load(ctx, "q1")
	if !reflect.DeepEqual(data, []byte{5}) {
		t.Errorf("Load after overwrite = %v, want [5]", data)
	}

	ids, err := storage.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"q0", "q1"}) {
		t.Errorf("List = %v, want [q0 q1]", ids)
	}

	if err := storage.Delete(ctx, "q1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := storage.Delete(ctx, "q1"); err != nil {
		t.Errorf("Delete of missing id should succeed, got %v", err)
	}

	if _, err := storage.Load(ctx, "q1"); !errors.IsNotFound(err) {
		t.Errorf("Load after Delete error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	testStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	data := []byte{1, 2, 3}
	storage.Save(ctx, "q", data)
	data[0] = 9

	loaded, _ := storage.Load(ctx, "q")
	if loaded[0] != 1 {
		t.Error("Save should copy the input")
	}
	loaded[1] = 9
	again, _ := storage.Load(ctx, "q")
	if again[1] != 2 {
		t.Error("Load should return a copy")
	}
}

func TestFileStorage(t *testing.T) {
	testStorage(t, NewFileStorage(t.TempDir()))
}

func TestFileStorage_IDsWithPathSeparators(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	ctx := context.Background()

	id := "../queries/amsterdam coffee"
	if err := storage.Save(ctx, id, []byte{1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ids, _ := storage.List(ctx)
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("List = %v, want [%s]", ids, id)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("unexpected directory %s", e.Name())
		}
	}
}

func TestFileStorage_ListMissingDirectory(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "missing"))

	ids, err := storage.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("List = %v, want empty", ids)
	}
}

func TestService_SaveAndGet(t *testing.T) {
	svc := NewService(NewMemoryStorage(), nil, logger.Discard())
	defer svc.Close()
	ctx := context.Background()

	original := sampleResult("amsterdam_query")
	if err := svc.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := svc.Get(ctx, "amsterdam_query")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded.Equal(original) {
		t.Errorf("Get = %v, want %v", loaded, original)
	}
	if loaded.Breakdown().Value() != 0.2 {
		t.Errorf("breakdown value = %v, want 0.2", loaded.Breakdown().Value())
	}
}

func TestService_SaveRejectsInvalid(t *testing.T) {
	svc := NewService(NewMemoryStorage(), nil, logger.Discard())
	ctx := context.Background()

	tests := []struct {
		name   string
		result *rankeval.EvaluationResult
	}{
		{"nil", nil},
		{"empty id", rankeval.NewEvaluationResult("", 0.5, nil)},
		{"quality above one", rankeval.NewEvaluationResult("q", 1.5, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Save(ctx, tt.result); !errors.IsValidation(err) {
				t.Errorf("Save error = %v, want VALIDATION_ERROR", err)
			}
		})
	}
}

func TestService_GetUnknownVariant(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	writer := NewService(storage, nil, logger.Discard())
	if err := writer.Save(ctx, sampleResult("q1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reader := NewService(storage, rankeval.NewRegistry(), logger.Discard())
	_, err := reader.Get(ctx, "q1")
	if !errors.IsUnknownVariant(err) {
		t.Errorf("Get error = %v, want UNKNOWN_VARIANT", err)
	}
}

func TestService_AllReportsUnknownVariant(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	writer := NewService(storage, nil, logger.Discard())
	for _, r := range []*rankeval.EvaluationResult{sampleResult("q1"), rankeval.NewEvaluationResult("q2", 1, nil)} {
		if err := writer.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s) failed: %v", r.ID(), err)
		}
	}

	reader := NewService(storage, rankeval.NewRegistry(), logger.Discard())
	results, skipped, err := reader.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(results) != 1 || results[0].ID() != "q2" {
		t.Errorf("results = %v, want only q2", results)
	}
	if len(skipped) != 1 || skipped[0].ID != "q1" || !errors.IsUnknownVariant(skipped[0].Err) {
		t.Errorf("skipped = %+v, want q1 with UNKNOWN_VARIANT", skipped)
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(NewMemoryStorage(), nil, logger.Discard())

	if _, err := svc.Get(context.Background(), "missing"); !errors.IsNotFound(err) {
		t.Errorf("Get error = %v, want NOT_FOUND", err)
	}
}

func TestService_AllSkipsCorrupt(t *testing.T) {
	storage := NewMemoryStorage()
	svc := NewService(storage, nil, logger.Discard())
	ctx := context.Background()

	svc.Save(ctx, sampleResult("q1"))
	svc.Save(ctx, rankeval.NewEvaluationResult("q2", 1, nil))
	storage.Save(ctx, "q3", []byte{0, 0})

	results, skipped, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("All returned %d results, want 2", len(results))
	}
	if results[0].ID() != "q1" || results[1].ID() != "q2" {
		t.Errorf("All ids = %s, %s", results[0].ID(), results[1].ID())
	}
	if len(skipped) != 1 || skipped[0].ID != "q3" || !errors.IsMalformedStream(skipped[0].Err) {
		t.Errorf("skipped = %+v, want q3 with MALFORMED_STREAM", skipped)
	}

	if err := svc.Delete(ctx, "q1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	ids, _ := svc.List(ctx)
	if !reflect.DeepEqual(ids, []string{"q2", "q3"}) {
		t.Errorf("List = %v", ids)
	}
}

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    string
		wantErr bool
	}{
		{"memory", config.StoreConfig{Type: "memory"}, "*store.MemoryStorage", false},
		{"default", config.StoreConfig{}, "*store.MemoryStorage", false},
		{"file", config.StoreConfig{Type: "file", Path: t.TempDir()}, "*store.FileStorage", false},
		{"file without path", config.StoreConfig{Type: "file"}, "", true},
		{"redis bad url", config.StoreConfig{Type: "redis", RedisURL: "invalid://url"}, "", true},
		{"unknown", config.StoreConfig{Type: "s3"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := NewStorage(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer storage.Close()
			if got := reflect.TypeOf(storage).String(); got != tt.want {
				t.Errorf("NewStorage() type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewRedisStorage_ConnectionFailure(t *testing.T) {
	// Try to connect to non-existent Redis
	_, err := NewRedisStorage("redis://localhost:9999", "", 0)
	if err == nil {
		t.Fatal("expected error for connection failure")
	}
	if errors.CodeOf(err) != errors.CodeUnavailable {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.CodeUnavailable)
	}
}

func TestRedisStorage(t *testing.T) {
	// Skip if Redis not available
	storage, err := NewRedisStorage("redis://localhost:6379/15", "rankeval:test:", time.Minute)
	if err != nil {
		t.Skip("Redis not available:", err)
	}

	ctx := context.Background()
	defer storage.Delete(ctx, "q0")
	testStorage(t, storage)
}
