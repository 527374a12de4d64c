package upload

import (
	"context"
	"testing"

	"tailorstudio/internal/testdb"
)

func TestRegistry_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Open(t))

	if err := repo.Add(ctx, "c-1", []string{"a", "b"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, "c-1", []string{"c"}); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if err := repo.Add(ctx, "c-2", []string{"other"}); err != nil {
		t.Fatalf("add other: %v", err)
	}

	urls, err := repo.URLs(ctx, "c-1")
	if err != nil {
		t.Fatalf("urls: %v", err)
	}
	if len(urls) != 3 || urls[0] != "a" || urls[2] != "c" {
		t.Fatalf("expected upload order, got %v", urls)
	}

	if err := repo.Release(ctx, "c-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if urls, _ := repo.URLs(ctx, "c-1"); len(urls) != 0 {
		t.Fatalf("expected released, got %v", urls)
	}
	if urls, _ := repo.URLs(ctx, "c-2"); len(urls) != 1 {
		t.Fatalf("expected other correlation untouched, got %v", urls)
	}
}
