// Package backup reads the bulk-load CSV and writes the JSON export. Both
// run only at process startup and shutdown, outside the protocol.
package backup

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

// ReadCSV loads funkos from a CSV file with a header row and the columns
// uuid,name,category,price,releaseDate. Over-long uuid fields are truncated
// to the canonical 36 characters.
func ReadCSV(path string) ([]model.Funko, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var funkos []model.Funko
	for i, rec := range records[1:] {
		f, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+2, path, err)
		}
		funkos = append(funkos, f)
	}
	return funkos, nil
}

// WriteJSON exports funkos to path as a pretty-printed JSON array.
func WriteJSON(path string, funkos []model.Funko) error {
	if funkos == nil {
		funkos = []model.Funko{}
	}
	data, err := json.MarshalIndent(funkos, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func parseRecord(rec []string) (model.Funko, error) {
	rawUUID := rec[0]
	if len(rawUUID) > 36 {
		rawUUID = rawUUID[:36]
	}
	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return model.Funko{}, fmt.Errorf("parsing uuid: %w", err)
	}

	category, err := model.ParseCategory(rec[2])
	if err != nil {
		return model.Funko{}, err
	}

	price, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return model.Funko{}, fmt.Errorf("parsing price: %w", err)
	}

	day, err := time.Parse("2006-01-02", rec[4])
	if err != nil {
		return model.Funko{}, fmt.Errorf("parsing release date: %w", err)
	}

	return model.Funko{
		UUID:        id,
		Name:        rec[1],
		Category:    category,
		Price:       price,
		ReleaseDate: model.Date{Time: day},
	}, nil
}
