package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

func newTestRepo(t *testing.T) *FunkoRepository {
	t.Helper()

	db, err := OpenDB("sqlite", filepath.Join(t.TempDir(), "funkos.db"))
	if err != nil {
		t.Fatalf("OpenDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewFunkoRepository(db)
}

func testFunko(seq int64) model.Funko {
	return model.Funko{
		SeqID:       seq,
		UUID:        uuid.New(),
		Name:        "Iron Man",
		Category:    model.CategoryMarvel,
		Price:       24.90,
		ReleaseDate: model.NewDate(2023, time.May, 4),
	}
}

func TestSaveAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f := testFunko(1)
	if err := repo.Save(ctx, &f); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if f.ID == 0 {
		t.Error("Save() did not assign a public id")
	}
	if f.CreatedAt.IsZero() || f.UpdatedAt.IsZero() {
		t.Error("Save() did not stamp timestamps")
	}
}

func TestFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f := testFunko(1)
	if err := repo.Save(ctx, &f); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := repo.FindByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("FindByID() unexpected error: %v", err)
	}
	if got.UUID != f.UUID || got.Name != f.Name || got.Category != f.Category {
		t.Errorf("FindByID() = %+v, want fields of %+v", got, f)
	}
	if got.ReleaseDate.String() != "2023-05-04" {
		t.Errorf("FindByID() ReleaseDate = %s, want 2023-05-04", got.ReleaseDate)
	}

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, ErrFunkoNotFound) {
		t.Errorf("FindByID(999) error = %v, want ErrFunkoNotFound", err)
	}
}

func TestFindByUUID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f := testFunko(1)
	if err := repo.Save(ctx, &f); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := repo.FindByUUID(ctx, f.UUID)
	if err != nil {
		t.Fatalf("FindByUUID() unexpected error: %v", err)
	}
	if got.ID != f.ID {
		t.Errorf("FindByUUID() ID = %d, want %d", got.ID, f.ID)
	}

	if _, err := repo.FindByUUID(ctx, uuid.New()); !errors.Is(err, ErrFunkoNotFound) {
		t.Errorf("FindByUUID() error = %v, want ErrFunkoNotFound", err)
	}
}

func TestFindAllAndByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := testFunko(1)
	second := testFunko(2)
	second.Name = "Mickey Mouse"
	second.Category = model.CategoryDisney
	for _, f := range []*model.Funko{&first, &second} {
		if err := repo.Save(ctx, f); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("FindAll() returned %d funkos, want 2", len(all))
	}

	byName, err := repo.FindByName(ctx, "Mickey")
	if err != nil {
		t.Fatalf("FindByName() unexpected error: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Mickey Mouse" {
		t.Errorf("FindByName() = %+v, want the Mickey Mouse funko", byName)
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f := testFunko(1)
	if err := repo.Save(ctx, &f); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	f.Name = "Iron Man Mark II"
	f.Price = 39.90
	f.UpdatedAt = time.Now().Add(time.Hour)
	if err := repo.Update(ctx, &f); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}

	got, err := repo.FindByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("FindByID() unexpected error: %v", err)
	}
	if got.Name != "Iron Man Mark II" || got.Price != 39.90 {
		t.Errorf("Update() not persisted, got %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("Update() did not persist the new UpdatedAt")
	}

	missing := testFunko(2)
	missing.ID = 999
	if err := repo.Update(ctx, &missing); !errors.Is(err, ErrFunkoNotFound) {
		t.Errorf("Update() error = %v, want ErrFunkoNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f := testFunko(1)
	if err := repo.Save(ctx, &f); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	if err := repo.DeleteByID(ctx, f.ID); err != nil {
		t.Fatalf("DeleteByID() unexpected error: %v", err)
	}
	if _, err := repo.FindByID(ctx, f.ID); !errors.Is(err, ErrFunkoNotFound) {
		t.Errorf("FindByID() after delete error = %v, want ErrFunkoNotFound", err)
	}
	if err := repo.DeleteByID(ctx, f.ID); !errors.Is(err, ErrFunkoNotFound) {
		t.Errorf("second DeleteByID() error = %v, want ErrFunkoNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for seq := int64(1); seq <= 3; seq++ {
		f := testFunko(seq)
		if err := repo.Save(ctx, &f); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() unexpected error: %v", err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("FindAll() returned %d funkos after DeleteAll(), want 0", len(all))
	}
}
