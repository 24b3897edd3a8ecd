package models

import (
	"math"
	"strings"
)

// Record is a single spreadsheet row: a local food with the city and prefecture it is attributed to and the coordinates of that city.
type Record struct {
	Food       string  `json:"food"`
	Kana       string  `json:"kana"`
	City       string  `json:"city"`
	Prefecture string  `json:"prefecture"`
	Specialty  string  `json:"specialty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Valid reports whether the record may take part in aggregation.
func (r Record) Valid() bool {
	if strings.TrimSpace(r.City) == "" || strings.TrimSpace(r.Prefecture) == "" {
		return false
	}
	return finite(r.Latitude) && finite(r.Longitude)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
