package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"prefslots/internal/models"

	"github.com/paulmach/orb"
)

const (
	// DefaultMaxSlots is the number of cities kept per prefecture.
	DefaultMaxSlots = 30
	// DefaultPad is the empty margin, in percent, kept at each layout edge.
	DefaultPad = 8.0

	spanEpsilon = 1e-9
)

// ErrInvalidOptions is returned for generator options that cannot produce a layout.
var ErrInvalidOptions = errors.New("invalid slot options")

// SlotOptions controls slot selection and projection.
type SlotOptions struct {
	MaxSlots int
	Pad      float64
}

// DefaultSlotOptions returns MaxSlots 30 and Pad 8.
func DefaultSlotOptions() SlotOptions {
	return SlotOptions{MaxSlots: DefaultMaxSlots, Pad: DefaultPad}
}

// Validate checks that at least one slot is kept and that the padding leaves room for a layout.
func (o SlotOptions) Validate() error {
	if o.MaxSlots < 1 {
		return fmt.Errorf("%w: max slots must be positive, got %d", ErrInvalidOptions, o.MaxSlots)
	}
	if math.IsNaN(o.Pad) || o.Pad < 0 || o.Pad >= 50 {
		return fmt.Errorf("%w: pad must be in [0, 50), got %v", ErrInvalidOptions, o.Pad)
	}
	return nil
}

// SlotGenerator turns food records into per-prefecture slot layouts.
type SlotGenerator struct {
	opts SlotOptions
}

// NewSlotGenerator creates a generator with validated options
func NewSlotGenerator(opts SlotOptions) (*SlotGenerator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return &SlotGenerator{opts: opts}, nil
}

// Options returns the options the generator was built with.
func (g *SlotGenerator) Options() SlotOptions {
	return g.opts
}

type prefectureGroup struct {
	name    string
	records []models.Record
}

// Generate builds the slot table. Invalid records are dropped before grouping.
// Prefectures are ordered by name; each prefecture is computed from its own records only.
func (g *SlotGenerator) Generate(records []models.Record) models.SlotTable {
	groups := make(map[string]*prefectureGroup)
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		key := strings.TrimSpace(r.Prefecture)
		grp, ok := groups[key]
		if !ok {
			grp = &prefectureGroup{name: key}
			groups[key] = grp
		}
		grp.records = append(grp.records, r)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	table := models.SlotTable{Layouts: make([]models.PrefectureLayout, 0, len(names))}
	for _, name := range names {
		table.Layouts = append(table.Layouts, g.layout(groups[name]))
	}
	return table
}

func (g *SlotGenerator) layout(grp *prefectureGroup) models.PrefectureLayout {
	bounds := Extent(grp.records)
	top := TopCities(grp.records, g.opts.MaxSlots)

	slots := make([]models.Slot, 0, len(top))
	for i, c := range top {
		pos := Project(bounds, g.opts.Pad, c.MeanLat, c.MeanLng)
		slots = append(slots, models.Slot{
			ID:      i + 1,
			LeftPct: pos.LeftPct,
			TopPct:  pos.TopPct,
			City:    c.City,
		})
	}

	return models.PrefectureLayout{
		Prefecture: grp.name,
		Bounds:     bounds,
		Pad:        g.opts.Pad,
		Slots:      slots,
	}
}

// Aggregate counts the records of each city and averages their coordinates.
// The result is in first-seen order.
func Aggregate(records []models.Record) []models.CityAggregate {
	index := make(map[string]int)
	var aggs []models.CityAggregate
	for _, r := range records {
		city := strings.TrimSpace(r.City)
		i, ok := index[city]
		if !ok {
			i = len(aggs)
			index[city] = i
			aggs = append(aggs, models.CityAggregate{City: city})
		}
		aggs[i].Count++
		aggs[i].MeanLat += r.Latitude
		aggs[i].MeanLng += r.Longitude
	}
	for i := range aggs {
		n := float64(aggs[i].Count)
		aggs[i].MeanLat /= n
		aggs[i].MeanLng /= n
	}
	return aggs
}

// TopCities returns at most limit city aggregates ordered by descending count.
// Equal counts keep the order in which the cities first appear.
func TopCities(records []models.Record, limit int) []models.CityAggregate {
	aggs := Aggregate(records)
	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].Count > aggs[j].Count
	})
	if len(aggs) > limit {
		aggs = aggs[:limit]
	}
	return aggs
}

// Extent returns the bounding box of all records.
func Extent(records []models.Record) models.Bounds {
	if len(records) == 0 {
		return models.Bounds{}
	}
	mp := make(orb.MultiPoint, 0, len(records))
	for _, r := range records {
		mp = append(mp, orb.Point{r.Longitude, r.Latitude})
	}
	b := mp.Bound()
	return models.Bounds{
		MinLat: b.Bottom(),
		MaxLat: b.Top(),
		MinLng: b.Left(),
		MaxLng: b.Right(),
	}
}

// Project maps a coordinate into layout percentage space. Longitude grows to the
// right and latitude grows upwards, so the northern edge maps to pad.
// A zero span is replaced by a tiny epsilon; both values are rounded to 2 decimals.
func Project(b models.Bounds, pad, lat, lng float64) models.Position {
	spanLng := b.MaxLng - b.MinLng
	if spanLng == 0 {
		spanLng = spanEpsilon
	}
	spanLat := b.MaxLat - b.MinLat
	if spanLat == 0 {
		spanLat = spanEpsilon
	}

	usable := 100 - 2*pad
	x := (lng-b.MinLng)/spanLng*usable + pad
	y := (b.MaxLat-lat)/spanLat*usable + pad

	return models.Position{LeftPct: round2(x), TopPct: round2(y)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
