package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

var ErrFunkoNotFound = errors.New("funko not found")

const funkoColumns = "id, seq_id, uuid, name, category, price, release_date, created_at, updated_at"

// FunkoRepository persists funkos over database/sql.
type FunkoRepository struct {
	db *sql.DB
}

// NewFunkoRepository creates a new FunkoRepository.
func NewFunkoRepository(db *sql.DB) *FunkoRepository {
	return &FunkoRepository{db: db}
}

// FindAll returns every funko in the catalog.
func (r *FunkoRepository) FindAll(ctx context.Context) ([]model.Funko, error) {
	query := `SELECT ` + funkoColumns + ` FROM funkos`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funkos []model.Funko
	for rows.Next() {
		f, err := scanFunko(rows)
		if err != nil {
			return nil, err
		}
		funkos = append(funkos, f)
	}

	return funkos, rows.Err()
}

// FindByID retrieves a funko by its public id.
func (r *FunkoRepository) FindByID(ctx context.Context, id int) (model.Funko, error) {
	query := `SELECT ` + funkoColumns + ` FROM funkos WHERE id = ?`

	f, err := scanFunko(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Funko{}, ErrFunkoNotFound
		}
		return model.Funko{}, err
	}
	return f, nil
}

// FindByUUID retrieves a funko by its external id.
func (r *FunkoRepository) FindByUUID(ctx context.Context, id uuid.UUID) (model.Funko, error) {
	query := `SELECT ` + funkoColumns + ` FROM funkos WHERE uuid = ?`

	f, err := scanFunko(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Funko{}, ErrFunkoNotFound
		}
		return model.Funko{}, err
	}
	return f, nil
}

// FindByName returns funkos whose name contains the given fragment.
func (r *FunkoRepository) FindByName(ctx context.Context, name string) ([]model.Funko, error) {
	query := `SELECT ` + funkoColumns + ` FROM funkos WHERE name LIKE ?`

	rows, err := r.db.QueryContext(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funkos []model.Funko
	for rows.Next() {
		f, err := scanFunko(rows)
		if err != nil {
			return nil, err
		}
		funkos = append(funkos, f)
	}

	return funkos, rows.Err()
}

// Save inserts a new funko, stamping creation times and setting the
// storage-generated public id on the struct.
func (r *FunkoRepository) Save(ctx context.Context, f *model.Funko) error {
	query := `INSERT INTO funkos (seq_id, uuid, name, category, price, release_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	result, err := r.db.ExecContext(ctx, query,
		f.SeqID, f.UUID.String(), f.Name, string(f.Category), f.Price,
		f.ReleaseDate.String(), toMillis(f.CreatedAt), toMillis(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving funko: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = int(id)
	return nil
}

// Update persists the mutable fields of an existing funko. The caller is
// expected to have set UpdatedAt.
func (r *FunkoRepository) Update(ctx context.Context, f *model.Funko) error {
	query := `UPDATE funkos SET name = ?, category = ?, price = ?, release_date = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		f.Name, string(f.Category), f.Price, f.ReleaseDate.String(), toMillis(f.UpdatedAt), f.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFunkoNotFound
	}
	return nil
}

// DeleteByID removes a funko by its public id.
func (r *FunkoRepository) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM funkos WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFunkoNotFound
	}
	return nil
}

// DeleteAll removes every funko.
func (r *FunkoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM funkos`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFunko(row rowScanner) (model.Funko, error) {
	var (
		f           model.Funko
		rawUUID     string
		rawCategory string
		rawDate     string
		createdAt   int64
		updatedAt   int64
	)

	err := row.Scan(&f.ID, &f.SeqID, &rawUUID, &f.Name, &rawCategory, &f.Price, &rawDate, &createdAt, &updatedAt)
	if err != nil {
		return model.Funko{}, err
	}

	f.UUID, err = uuid.Parse(rawUUID)
	if err != nil {
		return model.Funko{}, fmt.Errorf("parsing stored uuid: %w", err)
	}

	f.Category, err = model.ParseCategory(rawCategory)
	if err != nil {
		return model.Funko{}, err
	}

	day, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return model.Funko{}, fmt.Errorf("parsing stored release date: %w", err)
	}
	f.ReleaseDate = model.Date{Time: day}

	f.CreatedAt = fromMillis(createdAt)
	f.UpdatedAt = fromMillis(updatedAt)
	return f, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
