package entities

import (
	"strings"
	"time"
)

// Category is the closed set of service categories a provider can register under.
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryStationery Category = "Stationery"
	CategoryServices   Category = "Services"
	CategoryMedicine   Category = "Medicine"
	CategoryTransport  Category = "Transport"
	CategoryGeneral    Category = "General"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryStationery,
		CategoryServices,
		CategoryMedicine,
		CategoryTransport,
		CategoryGeneral,
	}
}

// ParseCategory maps free text onto the closed category set, case-insensitively.
// The boolean reports whether the input named a known category; an entry with
// an unknown category is kept but never category-matches during ranking.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}

// Provider represents a registered campus seller or service entry.
type Provider struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    Category  `json:"category" db:"category"`
	Location    string    `json:"location" db:"location"`
	OpenTime    string    `json:"open_time" db:"open_time"`
	CloseTime   string    `json:"close_time" db:"close_time"`
	Description string    `json:"description" db:"description"`
	Keywords    []string  `json:"keywords" db:"-"`
	Contact     string    `json:"contact" db:"contact"`
	FormURL     string    `json:"form_url,omitempty" db:"form_url"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TagSet derives the lowercase keyword tag set used for semantic matching:
// registered keywords, description words longer than two characters, and the
// category itself.
func (p *Provider) TagSet() map[string]struct{} {
	tags := make(map[string]struct{}, len(p.Keywords)+8)
	for _, k := range p.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			tags[k] = struct{}{}
		}
	}
	for _, w := range strings.Fields(p.Description) {
		w = strings.ToLower(strings.Trim(w, ".,()"))
		if len(w) > 2 {
			tags[w] = struct{}{}
		}
	}
	if p.Category != "" {
		tags[strings.ToLower(string(p.Category))] = struct{}{}
	}
	return tags
}
