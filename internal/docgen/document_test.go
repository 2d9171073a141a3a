package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`

// buildDocx wraps body XML into a minimal but valid .docx archive.
func buildDocx(t *testing.T, bodyXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	ct, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = ct.Write([]byte(contentTypesXML))
	require.NoError(t, err)

	doc, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(docHeader + "<w:body>" + bodyXML + "</w:body></w:document>"))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// documentPart extracts word/document.xml from a serialized archive.
func documentPart(t *testing.T, data []byte) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		return content
	}
	t.Fatal("archive has no word/document.xml")
	return nil
}

func TestOpen_RejectsNonArchive(t *testing.T) {
	_, err := Open([]byte("not a zip archive"))
	assert.Error(t, err)
}

func TestOpen_RejectsArchiveWithoutDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(buf.Bytes())
	assert.ErrorIs(t, err, ErrNotWordDocument)
}

func TestRoundTrip_UntouchedDocumentIsByteIdentical(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Tax Invoice</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Plain text </w:t></w:r><w:r><w:t>split across runs</w:t></w:r></w:p>` +
		`<w:bookmarkStart w:id="0" w:name="top"/><w:bookmarkEnd w:id="0"/>` +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
	src := buildDocx(t, body)

	doc, err := Open(src)
	require.NoError(t, err)
	out, err := doc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, documentPart(t, src), documentPart(t, out))
}

func TestSubstitute_ReplacesAcrossRunBoundaries(t *testing.T) {
	// The placeholder is split mid-token over three runs, the way word
	// processors fragment text after edits.
	body := `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Client: [comp</w:t></w:r><w:r><w:t>any_na</w:t></w:r><w:r><w:t>me]</w:t></w:r></w:p>`
	doc, err := Open(buildDocx(t, body))
	require.NoError(t, err)

	Substitute(doc, map[string]string{"[company_name]": "Acme Exports Pvt Ltd"})

	paras := doc.Paragraphs()
	require.Len(t, paras, 1)
	assert.Equal(t, "Client: Acme Exports Pvt Ltd", paras[0].Text())

	// Flatten-on-match keeps the first run's formatting only.
	out, err := doc.Bytes()
	require.NoError(t, err)
	part := string(documentPart(t, out))
	assert.Contains(t, part, `<w:rPr><w:b/></w:rPr>`)
	assert.Contains(t, part, `Client: Acme Exports Pvt Ltd`)
	assert.NotContains(t, part, "[company_name]")
}

func TestSubstitute_UnmatchedParagraphStaysVerbatim(t *testing.T) {
	untouched := `<w:p><w:r><w:t xml:space="preserve">Terms &amp; conditions apply  </w:t></w:r></w:p>`
	body := untouched + `<w:p><w:r><w:t>[Invoice number]</w:t></w:r></w:p>`
	src := buildDocx(t, body)

	doc, err := Open(src)
	require.NoError(t, err)
	Substitute(doc, map[string]string{"[Invoice number]": "INV-42"})

	out, err := doc.Bytes()
	require.NoError(t, err)
	part := string(documentPart(t, out))
	// The non-matching paragraph keeps its original bytes exactly,
	// trailing spaces and entity encoding included.
	assert.Contains(t, part, untouched)
	assert.Contains(t, part, "INV-42")
}

func TestSubstitute_LongestKeyWins(t *testing.T) {
	body := `<w:p><w:r><w:t>[company_name]</w:t></w:r></w:p>`
	doc, err := Open(buildDocx(t, body))
	require.NoError(t, err)

	Substitute(doc, map[string]string{
		"name":          "WRONG",
		"company_name":  "Acme",
		"[company_name": "ALSO WRONG",
	})

	// 13-char "[company_name" fires before 12-char "company_name",
	// leaving "]" behind; "name" never gets a chance either way.
	assert.Equal(t, "ALSO WRONG]", doc.Paragraphs()[0].Text())
}

func TestSubstitute_ReplacesInsideTables(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>[GST]</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	doc, err := Open(buildDocx(t, body))
	require.NoError(t, err)

	Substitute(doc, map[string]string{"[GST]": "29ABCDE1234F1Z5"})

	tables := doc.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "29ABCDE1234F1Z5", tables[0].Rows()[0].Cells()[0].Text())
}

func TestSubstitute_EscapesReplacementText(t *testing.T) {
	body := `<w:p><w:r><w:t>[company_name]</w:t></w:r></w:p>`
	doc, err := Open(buildDocx(t, body))
	require.NoError(t, err)

	Substitute(doc, map[string]string{"[company_name]": "Smith & Sons <Intl>"})

	out, err := doc.Bytes()
	require.NoError(t, err)
	part := string(documentPart(t, out))
	assert.Contains(t, part, "Smith &amp; Sons &lt;Intl&gt;")
}
