package docgen

import (
	"sort"
	"strings"
)

// Substitute replaces placeholder tokens across the whole document:
// every body paragraph and every paragraph nested in any table cell.
// Keys are literal substrings, tried longest-first so overlapping keys
// resolve the same way regardless of map order. A matched paragraph is
// flattened to a single run carrying the first run's formatting; a
// paragraph matching no key keeps its run structure byte-identical.
func Substitute(d *Document, replacements map[string]string) {
	keys := orderedKeys(replacements)
	for _, p := range d.Paragraphs() {
		substituteParagraph(p, keys, replacements)
	}
	for _, t := range d.Tables() {
		substituteTable(t, keys, replacements)
	}
}

// Fill runs a full template merge in the legacy order: headline
// paragraphs first, then per table roster expansion followed by cell
// substitution, so freshly cloned roster rows receive substitution too.
func Fill(d *Document, replacements map[string]string, layout ColumnLayout, lines []RosterLine) {
	keys := orderedKeys(replacements)
	for _, p := range d.Paragraphs() {
		substituteParagraph(p, keys, replacements)
	}
	for _, t := range d.Tables() {
		if len(lines) > 0 {
			ExpandRoster(t, RosterMarker, layout, lines)
		}
		substituteTable(t, keys, replacements)
	}
}

func substituteTable(t *Table, keys []string, replacements map[string]string) {
	for _, row := range t.Rows() {
		for _, cell := range row.Cells() {
			for _, p := range cell.Paragraphs() {
				substituteParagraph(p, keys, replacements)
			}
			for _, nested := range cell.Tables() {
				substituteTable(nested, keys, replacements)
			}
		}
	}
}

func substituteParagraph(p *Paragraph, keys []string, replacements map[string]string) {
	full := p.Text()
	matched := false
	for _, key := range keys {
		if strings.Contains(full, key) {
			full = strings.ReplaceAll(full, key, replacements[key])
			matched = true
		}
	}
	if matched {
		p.setText(full)
	}
}

func orderedKeys(replacements map[string]string) []string {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
