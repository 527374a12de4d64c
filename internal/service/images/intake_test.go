package images

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"tailorstudio/internal/domain"
)

type stubSaver struct {
	n   int
	bad string
}

func (s *stubSaver) Save(_ context.Context, r io.Reader) (string, error) {
	body, _ := io.ReadAll(r)
	if string(body) == s.bad {
		return "", domain.NewValidationError("images", "not an image")
	}
	s.n++
	return "/files/" + string(body), nil
}

type stubRegistry struct {
	added map[string][]string
}

func (s *stubRegistry) Add(_ context.Context, id string, urls []string) error {
	if s.added == nil {
		s.added = map[string][]string{}
	}
	s.added[id] = append(s.added[id], urls...)
	return nil
}

func readers(names ...string) []io.Reader {
	out := make([]io.Reader, 0, len(names))
	for _, n := range names {
		out = append(out, strings.NewReader(n))
	}
	return out
}

func TestAccept_RegistersInOrder(t *testing.T) {
	reg := &stubRegistry{}
	in := NewIntake(&stubSaver{}, reg, nil)

	id, urls, err := in.Accept(context.Background(), "c-1", readers("a.jpg", "b.jpg"))
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if id != "c-1" || !reflect.DeepEqual(urls, []string{"/files/a.jpg", "/files/b.jpg"}) {
		t.Fatalf("unexpected result %s %v", id, urls)
	}
	if _, _, err := in.Accept(context.Background(), "c-1", readers("c.jpg")); err != nil {
		t.Fatalf("Accept again: %v", err)
	}
	if !reflect.DeepEqual(reg.added["c-1"], []string{"/files/a.jpg", "/files/b.jpg", "/files/c.jpg"}) {
		t.Fatalf("expected appended registration, got %v", reg.added["c-1"])
	}
}

func TestAccept_GeneratesCorrelationID(t *testing.T) {
	reg := &stubRegistry{}
	id, _, err := NewIntake(&stubSaver{}, reg, nil).Accept(context.Background(), "  ", readers("a.jpg"))
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if id == "" || len(reg.added[id]) != 1 {
		t.Fatalf("expected generated id to be registered, got %q %v", id, reg.added)
	}
}

func TestAccept_Rejections(t *testing.T) {
	reg := &stubRegistry{}
	in := NewIntake(&stubSaver{bad: "bad"}, reg, nil)

	if _, _, err := in.Accept(context.Background(), "c", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for no files, got %v", err)
	}
	_, _, err := in.Accept(context.Background(), "c", readers("ok.jpg", "bad"))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["images[1]"] == "" {
		t.Fatalf("expected per-file validation error, got %v", err)
	}
	if len(reg.added) != 0 {
		t.Fatalf("nothing should be registered after a rejected file")
	}
}
