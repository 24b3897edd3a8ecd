package models

import "errors"

// ErrPrefectureNotFound is returned when no layout exists for a prefecture.
var ErrPrefectureNotFound = errors.New("prefecture not found")

// Slot is a display position for one city inside a prefecture layout, in percent of the layout width and height.
type Slot struct {
	ID      int     `json:"id"`
	LeftPct float64 `json:"leftPct"`
	TopPct  float64 `json:"topPct"`
	City    string  `json:"city,omitempty"`
}

// Position is a point in layout percentage space.
type Position struct {
	LeftPct float64 `json:"leftPct"`
	TopPct  float64 `json:"topPct"`
}

// Bounds is the geographic extent of every valid record of a prefecture.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// CityAggregate summarizes the records of one city within a prefecture.
type CityAggregate struct {
	City    string
	Count   int
	MeanLat float64
	MeanLng float64
}

// PrefectureLayout holds the slots of one prefecture together with the bounds and padding they were projected with.
type PrefectureLayout struct {
	Prefecture string  `json:"prefecture"`
	Bounds     Bounds  `json:"bounds"`
	Pad        float64 `json:"pad"`
	Slots      []Slot  `json:"slots"`
}

// SlotTable is the generated lookup table. Layouts are sorted by prefecture name.
type SlotTable struct {
	Layouts []PrefectureLayout
}

// Prefectures returns the prefecture names in table order.
func (t SlotTable) Prefectures() []string {
	names := make([]string, 0, len(t.Layouts))
	for _, l := range t.Layouts {
		names = append(names, l.Prefecture)
	}
	return names
}

// Lookup returns the layout for a prefecture.
func (t SlotTable) Lookup(prefecture string) (PrefectureLayout, bool) {
	for _, l := range t.Layouts {
		if l.Prefecture == prefecture {
			return l, true
		}
	}
	return PrefectureLayout{}, false
}

// SlotMap returns the table in its published shape, prefecture name to slots.
func (t SlotTable) SlotMap() map[string][]Slot {
	m := make(map[string][]Slot, len(t.Layouts))
	for _, l := range t.Layouts {
		m[l.Prefecture] = l.Slots
	}
	return m
}
