// Package writer serializes a slot table into the static artifact read by the front end.
package writer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"prefslots/internal/models"
)

// Output formats.
const (
	FormatTypeScript = "ts"
	FormatJSON       = "json"
)

// Encoder writes a whole table to w.
type Encoder interface {
	Encode(w io.Writer, table models.SlotTable) error
}

// ForFormat returns the encoder for a format name.
func ForFormat(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatTypeScript, "typescript":
		return TypeScriptEncoder{}, nil
	case FormatJSON:
		return JSONEncoder{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("writer: unsupported format %q", format)
	}
}

// FormatFromPath infers the format from the output file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ts":
		return FormatTypeScript, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("writer: cannot infer format from extension %q", ext)
	}
}

// WriteFile encodes the table and writes it to path, creating parent directories.
// Nothing is written when encoding fails.
func WriteFile(path string, enc Encoder, table models.SlotTable) error {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, table); err != nil {
		return fmt.Errorf("writer: failed to encode table: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writer: failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writer: failed to write file: %w", err)
	}
	return nil
}

// TypeScriptEncoder emits the Slot type and the PREF_SLOTS constant, one slot per line
// followed by its city as a comment.
type TypeScriptEncoder struct{}

// Encode implements Encoder.
func (TypeScriptEncoder) Encode(w io.Writer, table models.SlotTable) error {
	bw := bufio.NewWriter(w)

	lines := []string{
		"export type Slot = { id: number; leftPct: number; topPct: number };",
		"",
		"export const PREF_SLOTS: Record<string, Slot[]> = {",
	}
	for _, layout := range table.Layouts {
		lines = append(lines, fmt.Sprintf("  %s: [", strconv.Quote(layout.Prefecture)))
		for _, s := range layout.Slots {
			line := fmt.Sprintf("    { id: %d, leftPct: %s, topPct: %s },", s.ID, formatPct(s.LeftPct), formatPct(s.TopPct))
			if city := comment(s.City); city != "" {
				line += " // " + city
			}
			lines = append(lines, line)
		}
		lines = append(lines, "  ],")
	}
	lines = append(lines, "};")

	if _, err := bw.WriteString(strings.Join(lines, "\n")); err != nil {
		return err
	}
	return bw.Flush()
}

// formatPct prints the shortest representation with at least one decimal, 8 as 8.0.
func formatPct(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func comment(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JSONEncoder emits an object keyed by prefecture name.
type JSONEncoder struct {
	Indent string
}

// Encode implements Encoder.
func (e JSONEncoder) Encode(w io.Writer, table models.SlotTable) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	return enc.Encode(table.SlotMap())
}
