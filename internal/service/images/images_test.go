package images

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestUpdateApply_RetainedThenNew(t *testing.T) {
	got := Update{Keep: []string{"urlA"}, Uploaded: []string{"urlC"}}.Apply([]string{"urlA", "urlB"})
	want := []string{"urlA", "urlC"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUpdateApply_KeepsStoredOrderAndIgnoresUnknown(t *testing.T) {
	got := Update{Keep: []string{"c", "a", "injected"}}.Apply([]string{"a", "b", "c"})
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUpdateApply_KeepAll(t *testing.T) {
	got := Update{KeepAll: true, Uploaded: []string{"n1", "n2"}}.Apply([]string{"a", "b"})
	want := []string{"a", "b", "n1", "n2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUpdateApply_EmptyKeepDropsEverything(t *testing.T) {
	got := Update{Keep: []string{}}.Apply([]string{"a", "b"})
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

type stubUploads struct {
	urls       map[string][]string
	released   []string
	releaseErr error
}

func (s *stubUploads) URLs(_ context.Context, id string) ([]string, error) {
	return s.urls[id], nil
}

func (s *stubUploads) Release(_ context.Context, id string) error {
	s.released = append(s.released, id)
	return s.releaseErr
}

func TestResolver_UploadedAndRelease(t *testing.T) {
	repo := &stubUploads{urls: map[string][]string{"u1": {"x", "y"}}, releaseErr: errors.New("boom")}
	r := NewResolver(repo, nil)

	got, err := r.Uploaded(context.Background(), " u1 ")
	if err != nil {
		t.Fatalf("Uploaded: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("unexpected urls %v", got)
	}
	if got, _ := r.Uploaded(context.Background(), ""); got != nil {
		t.Fatalf("expected nil for empty id, got %v", got)
	}

	r.Release(context.Background(), "u1", "", "u2")
	if !reflect.DeepEqual(repo.released, []string{"u1", "u2"}) {
		t.Fatalf("unexpected released ids %v", repo.released)
	}
}
