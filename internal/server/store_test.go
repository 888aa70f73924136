package server

import (
	"context"
	"testing"
	"time"

	"github.com/tablekit/tablekit/pkg/errors"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	d := &Dataset{
		ID:        "abc",
		Name:      "covid",
		Rows:      2,
		Columns:   []string{"country", "cases"},
		CreatedAt: time.Now().UTC(),
		Payload:   []byte("payload"),
	}
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "covid" || got.Rows != 2 || string(got.Payload) != "payload" {
		t.Errorf("Get() = %+v", got)
	}

	// The store keeps its own copy.
	d.Name = "mutated"
	got, err = s.Get(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "covid" {
		t.Errorf("stored name = %q, want %q", got.Name, "covid")
	}

	if err := s.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, "abc"); !errors.Is(err, errors.ErrCodeDatasetNotFound) {
		t.Errorf("Get() after delete error = %v, want DATASET_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "abc"); !errors.Is(err, errors.ErrCodeDatasetNotFound) {
		t.Errorf("second Delete() error = %v, want DATASET_NOT_FOUND", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		err := s.Put(ctx, &Dataset{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Payload:   []byte("data"),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(list))
	}

	wantOrder := []string{"new", "mid", "old"}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Errorf("List()[%d].ID = %q, want %q", i, list[i].ID, id)
		}
	}
	for _, d := range list {
		if d.Payload != nil {
			t.Errorf("List() entry %s should not carry a payload", d.ID)
		}
	}
}

func TestDatasetMeta(t *testing.T) {
	d := &Dataset{ID: "x", Rows: 1, Payload: []byte("data")}
	meta := d.Meta()

	if meta.Payload != nil {
		t.Error("Meta() should strip the payload")
	}
	if d.Payload == nil {
		t.Error("Meta() should not mutate the original")
	}
	if meta.ID != "x" || meta.Rows != 1 {
		t.Errorf("Meta() = %+v", meta)
	}
}
