package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a funko by franchise.
type Category string

const (
	CategoryMarvel Category = "MARVEL"
	CategoryDisney Category = "DISNEY"
	CategoryAnime  Category = "ANIME"
	CategoryOther  Category = "OTHER"
)

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryMarvel:
		return CategoryMarvel, nil
	case CategoryDisney:
		return CategoryDisney, nil
	case CategoryAnime:
		return CategoryAnime, nil
	case CategoryOther:
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Funko represents a collectible figure in the catalog.
// ID is assigned by storage and is the cache and lookup key.
// SeqID comes from the process-wide sequence generator.
type Funko struct {
	SeqID       int64     `json:"seqId"`
	ID          int       `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	ReleaseDate Date      `json:"releaseDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const dateLayout = "2006-01-02"

// Date is a calendar day carried on the wire as "yyyy-mm-dd".
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parsing release date: %w", err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}
