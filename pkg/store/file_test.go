package store

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/cargoplan/pkg/plan"
)

func newPlan(name string) *plan.Plan {
	p := plan.New(name, "1.0.0")
	p.LibName = name
	p.Artifacts = []string{"lib"}
	p.Features = []string{"default-like"}
	return p
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	p := newPlan("deltachat_ffi")
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Errorf("round trip changed the plan:\nbefore: %+v\nafter:  %+v", p, got)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFileStorePutRejectsEmptyID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := newPlan("pkg")
	p.ID = ""
	if err := s.Put(context.Background(), p); err == nil {
		t.Error("Put without ID should fail")
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	p := newPlan("pkg")
	if err := s.Put(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v, want ErrNotFound", err)
	}
	// Deleting a missing plan is not an error.
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	a := newPlan("alpha")
	b := newPlan("alpha")
	c := newPlan("beta")
	for _, p := range []*plan.Plan{a, b, c} {
		if err := s.Put(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) = %v", all)
	}

	alphas, err := s.List(ctx, "alpha")
	if err != nil {
		t.Fatalf("List(alpha): %v", err)
	}
	slices.Sort(alphas)
	want := []string{a.ID, b.ID}
	slices.Sort(want)
	if !reflect.DeepEqual(alphas, want) {
		t.Errorf("List(alpha) = %v, want %v", alphas, want)
	}

	none, err := s.List(ctx, "gamma")
	if err != nil {
		t.Fatalf("List(gamma): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("List(gamma) = %v, want empty", none)
	}
}
