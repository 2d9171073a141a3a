// Package docgen mutates WordprocessingML invoice templates in place:
// placeholder substitution over the paragraph/run tree and roster table
// expansion. Only paragraphs, runs, tables, rows and cells are modeled;
// every other byte of the document part (run/paragraph/table properties,
// section settings, drawings, bookmarks) is carried through verbatim, so
// untouched content serializes byte-identical to the template.
package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const documentPartName = "word/document.xml"

// ErrNotWordDocument reports a template archive without a main
// document part.
var ErrNotWordDocument = errors.New("docgen: template has no word/document.xml part")

// node is one body-level or nested element of the document part. Clean
// nodes write their original bytes verbatim; dirty nodes regenerate.
type node interface {
	dirty() bool
	write(w *bytes.Buffer)
	clone() node
}

// rawNode is an untouched byte span of the source document part.
type rawNode []byte

func (r rawNode) dirty() bool            { return false }
func (r rawNode) write(w *bytes.Buffer)  { w.Write(r) }
func (r rawNode) clone() node            { return r }

// Run is one formatted text run (w:r).
type Run struct {
	raw      []byte // original span, written verbatim while clean
	openTag  []byte
	props    []byte // raw w:rPr block carried into regenerated output
	text     string
	modified bool
}

func (r *Run) dirty() bool { return r.modified }

// Text is the run's visible text (concatenated w:t content).
func (r *Run) Text() string { return r.text }

func (r *Run) setText(s string) {
	r.text = s
	r.modified = true
}

func (r *Run) write(w *bytes.Buffer) {
	if !r.modified {
		w.Write(r.raw)
		return
	}
	writeOpenTag(w, r.openTag)
	if len(r.props) > 0 {
		w.Write(r.props)
	}
	w.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(w, []byte(r.text))
	w.WriteString(`</w:t></w:r>`)
}

func (r *Run) clone() node {
	c := *r
	return &c
}

func newRun(text string) *Run {
	return &Run{openTag: []byte("<w:r>"), text: text, modified: true}
}

// Paragraph is one w:p element, standalone or inside a table cell.
// Children hold runs and raw spans (pPr, bookmarks, proofing marks) in
// document order.
type Paragraph struct {
	raw      []byte
	openTag  []byte
	children []node
	modified bool
}

func (p *Paragraph) dirty() bool {
	if p.modified {
		return true
	}
	return anyDirty(p.children)
}

func (p *Paragraph) write(w *bytes.Buffer) {
	if !p.dirty() {
		w.Write(p.raw)
		return
	}
	writeOpenTag(w, p.openTag)
	for _, c := range p.children {
		c.write(w)
	}
	w.WriteString("</w:p>")
}

func (p *Paragraph) clone() node {
	c := &Paragraph{raw: p.raw, openTag: p.openTag, modified: p.modified}
	c.children = cloneNodes(p.children)
	return c
}

// Text reconstructs the paragraph's full visible text from its runs.
func (p *Paragraph) Text() string {
	var b bytes.Buffer
	for _, c := range p.children {
		if run, ok := c.(*Run); ok {
			b.WriteString(run.text)
		}
	}
	return b.String()
}

// setText collapses the paragraph to a single run carrying the first
// run's formatting. Non-run children (pPr and friends) survive in
// place; a paragraph with no runs gains a bare one.
func (p *Paragraph) setText(s string) {
	var first *Run
	kept := p.children[:0:0]
	for _, c := range p.children {
		run, ok := c.(*Run)
		if !ok {
			kept = append(kept, c)
			continue
		}
		if first == nil {
			first = run
			kept = append(kept, c)
		}
	}
	if first == nil {
		first = newRun(s)
		kept = append(kept, first)
	}
	first.setText(s)
	p.children = kept
	p.modified = true
}

// Table is one w:tbl element.
type Table struct {
	raw      []byte
	openTag  []byte
	children []node
	modified bool
}

func (t *Table) dirty() bool {
	if t.modified {
		return true
	}
	return anyDirty(t.children)
}

func (t *Table) write(w *bytes.Buffer) {
	if !t.dirty() {
		w.Write(t.raw)
		return
	}
	writeOpenTag(w, t.openTag)
	for _, c := range t.children {
		c.write(w)
	}
	w.WriteString("</w:tbl>")
}

func (t *Table) clone() node {
	c := &Table{raw: t.raw, openTag: t.openTag, modified: t.modified}
	c.children = cloneNodes(t.children)
	return c
}

// Rows returns the table's direct rows in order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, c := range t.children {
		if row, ok := c.(*Row); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// insertRowAfter places r immediately after the given existing row.
func (t *Table) insertRowAfter(after, r *Row) {
	t.modified = true
	for i, c := range t.children {
		if row, ok := c.(*Row); ok && row == after {
			t.children = append(t.children[:i+1], append([]node{r}, t.children[i+1:]...)...)
			return
		}
	}
	t.children = append(t.children, r)
}

// Row is one w:tr element.
type Row struct {
	raw      []byte
	openTag  []byte
	children []node
}

func (r *Row) dirty() bool { return anyDirty(r.children) }

func (r *Row) write(w *bytes.Buffer) {
	if !r.dirty() {
		w.Write(r.raw)
		return
	}
	writeOpenTag(w, r.openTag)
	for _, c := range r.children {
		c.write(w)
	}
	w.WriteString("</w:tr>")
}

func (r *Row) clone() node {
	c := &Row{raw: r.raw, openTag: r.openTag}
	c.children = cloneNodes(r.children)
	return c
}

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, c := range r.children {
		if cell, ok := c.(*Cell); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

// Cell is one w:tc element owning its own paragraphs and, possibly,
// nested tables.
type Cell struct {
	raw      []byte
	openTag  []byte
	children []node
}

func (c *Cell) dirty() bool { return anyDirty(c.children) }

func (c *Cell) write(w *bytes.Buffer) {
	if !c.dirty() {
		w.Write(c.raw)
		return
	}
	writeOpenTag(w, c.openTag)
	for _, n := range c.children {
		n.write(w)
	}
	w.WriteString("</w:tc>")
}

func (c *Cell) clone() node {
	cc := &Cell{raw: c.raw, openTag: c.openTag}
	cc.children = cloneNodes(c.children)
	return cc
}

// Paragraphs returns the cell's direct paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, n := range c.children {
		if p, ok := n.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns tables nested directly inside the cell.
func (c *Cell) Tables() []*Table {
	var tables []*Table
	for _, n := range c.children {
		if t, ok := n.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Text is the concatenated text of the cell's paragraphs.
func (c *Cell) Text() string {
	var b bytes.Buffer
	for _, p := range c.Paragraphs() {
		b.WriteString(p.Text())
	}
	return b.String()
}

func anyDirty(nodes []node) bool {
	for _, n := range nodes {
		if n.dirty() {
			return true
		}
	}
	return false
}

func cloneNodes(nodes []node) []node {
	out := make([]node, len(nodes))
	for i, n := range nodes {
		out[i] = n.clone()
	}
	return out
}

// writeOpenTag emits an original start tag, reopening it when the
// source element was self-closing.
func writeOpenTag(w *bytes.Buffer, open []byte) {
	if bytes.HasSuffix(open, []byte("/>")) {
		w.Write(open[:len(open)-2])
		w.WriteByte('>')
		return
	}
	w.Write(open)
}

type zipPart struct {
	name string
	data []byte
}

// Document is one parsed invoice template. Each call to Open builds an
// independently owned tree; nothing is shared across documents.
type Document struct {
	parts      []zipPart
	docPartIdx int
	prefix     []byte
	body       []node
	suffix     []byte
}

// Open parses a .docx archive into a mutable Document.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open template archive: %w", err)
	}

	doc := &Document{docPartIdx: -1}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read template part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read template part %s: %w", f.Name, err)
		}
		doc.parts = append(doc.parts, zipPart{name: f.Name, data: content})
		if f.Name == documentPartName {
			doc.docPartIdx = len(doc.parts) - 1
		}
	}
	if doc.docPartIdx < 0 {
		return nil, ErrNotWordDocument
	}

	prefix, body, suffix, err := parseDocumentXML(doc.parts[doc.docPartIdx].data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document part: %w", err)
	}
	doc.prefix = prefix
	doc.body = body
	doc.suffix = suffix
	return doc, nil
}

// Paragraphs returns the document's body-level paragraphs.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, n := range d.body {
		if p, ok := n.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns the document's body-level tables.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, n := range d.body {
		if t, ok := n.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Bytes serializes the document back into a .docx archive. All parts
// other than the main document part are copied verbatim.
func (d *Document) Bytes() ([]byte, error) {
	var docXML bytes.Buffer
	docXML.Write(d.prefix)
	for _, n := range d.body {
		n.write(&docXML)
	}
	docXML.Write(d.suffix)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for i, part := range d.parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
		data := part.data
		if i == d.docPartIdx {
			data = docXML.Bytes()
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return out.Bytes(), nil
}
