package docgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(text string) string {
	return `<w:tc><w:tcPr><w:tcW w:w="1200"/></w:tcPr><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:tc>`
}

func markerTable(columns int) string {
	header := ""
	marker := ""
	for i := 0; i < columns; i++ {
		header += cell("Col")
		if i == 1 {
			marker += cell("[name]")
		} else {
			marker += cell("")
		}
	}
	return `<w:tbl><w:tblPr><w:tblW w:w="9600"/></w:tblPr><w:tr>` + header + `</w:tr><w:tr>` + marker + `</w:tr></w:tbl>`
}

func cellTexts(row *Row) []string {
	var texts []string
	for _, c := range row.Cells() {
		texts = append(texts, c.Text())
	}
	return texts
}

func TestExpandRoster_OneRowPerLine(t *testing.T) {
	doc, err := Open(buildDocx(t, markerTable(8)))
	require.NoError(t, err)
	table := doc.Tables()[0]
	require.Len(t, table.Rows(), 2)

	lines := []RosterLine{
		{Name: "Asha Rao", DateOfJoining: "01-04-2023", TotalDays: "22", WorkingDays: "22", Location: "Bengaluru", NetAmount: "₹22,000.00"},
		{Name: "Vikram Iyer", DateOfJoining: "15-06-2024", TotalDays: "20", WorkingDays: "19.5", Status: "Notice", Location: "Pune", NetAmount: "₹19,500.00"},
		{Name: "Meera Shah", DateOfJoining: "02-01-2025", TotalDays: "18", WorkingDays: "18", Location: "Mumbai", NetAmount: "₹18,000.00"},
	}

	found := ExpandRoster(table, RosterMarker, DomesticLayout, lines)
	require.True(t, found)

	// Header row plus one data row per employee.
	rows := table.Rows()
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"1", "Asha Rao", "01-04-2023", "22", "22", "Active", "Bengaluru", "₹22,000.00"}, cellTexts(rows[1]))
	assert.Equal(t, []string{"2", "Vikram Iyer", "15-06-2024", "20", "19.5", "Notice", "Pune", "₹19,500.00"}, cellTexts(rows[2]))
	assert.Equal(t, []string{"3", "Meera Shah", "02-01-2025", "18", "18", "Active", "Mumbai", "₹18,000.00"}, cellTexts(rows[3]))
}

func TestExpandRoster_ForeignLayout(t *testing.T) {
	doc, err := Open(buildDocx(t, markerTable(4)))
	require.NoError(t, err)
	table := doc.Tables()[0]

	lines := []RosterLine{
		{Name: "Dana Cole", TotalHours: "160.00", HourlyRate: "25.00", NetAmount: "$4,000.00"},
	}

	require.True(t, ExpandRoster(table, RosterMarker, ForeignLayout, lines))

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Dana Cole", "160.00", "25.00 USD/hr", "$4,000.00"}, cellTexts(rows[1]))
}

func TestExpandRoster_NoMarkerLeavesTableUntouched(t *testing.T) {
	body := `<w:tbl><w:tr>` + cell("Description") + cell("Amount") + `</w:tr></w:tbl>`
	src := buildDocx(t, body)
	doc, err := Open(src)
	require.NoError(t, err)
	table := doc.Tables()[0]

	found := ExpandRoster(table, RosterMarker, DomesticLayout, []RosterLine{{Name: "Asha Rao"}})
	assert.False(t, found)

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, documentPart(t, src), documentPart(t, out))
}

func TestExpandRoster_MoreValuesThanCells(t *testing.T) {
	// Domestic layout against a narrow table: extra values are
	// discarded, not an error.
	doc, err := Open(buildDocx(t, markerTable(3)))
	require.NoError(t, err)
	table := doc.Tables()[0]

	require.True(t, ExpandRoster(table, RosterMarker, DomesticLayout, []RosterLine{{Name: "Asha Rao", DateOfJoining: "01-04-2023"}}))
	assert.Equal(t, []string{"1", "Asha Rao", "01-04-2023"}, cellTexts(table.Rows()[1]))
}

func TestFill_SubstitutesClonedRosterRows(t *testing.T) {
	body := `<w:p><w:r><w:t>Invoice [Invoice number] for [MM]/[YYYY]</w:t></w:r></w:p>` + markerTable(4)
	doc, err := Open(buildDocx(t, body))
	require.NoError(t, err)

	lines := []RosterLine{
		{Name: "Dana Cole", TotalHours: "160.00", HourlyRate: "25.00", NetAmount: "[ST]"},
		{Name: "Eli Ward", TotalHours: "80.00", HourlyRate: "30.00", NetAmount: "$2,400.00"},
	}
	Fill(doc, map[string]string{
		"[Invoice number]": "INV-9",
		"[MM]":             "01",
		"[YYYY]":           "2025",
		"[ST]":             "$4,000.00",
	}, ForeignLayout, lines)

	assert.Equal(t, "Invoice INV-9 for 01/2025", doc.Paragraphs()[0].Text())

	rows := doc.Tables()[0].Rows()
	require.Len(t, rows, 3)
	// Substitution runs after expansion, so placeholders written into
	// roster cells resolve too.
	assert.Equal(t, "$4,000.00", rows[1].Cells()[3].Text())
	assert.Equal(t, "$2,400.00", rows[2].Cells()[3].Text())
}

func TestExpandRoster_ClonedRowsShareNoState(t *testing.T) {
	doc, err := Open(buildDocx(t, markerTable(4)))
	require.NoError(t, err)
	table := doc.Tables()[0]

	lines := []RosterLine{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	}
	require.True(t, ExpandRoster(table, RosterMarker, ForeignLayout, lines))

	names := make([]string, 0, 3)
	for _, row := range table.Rows()[1:] {
		names = append(names, strings.TrimSpace(row.Cells()[0].Text()))
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}
