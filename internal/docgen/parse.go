package docgen

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// parseDocumentXML splits the main document part into the bytes before
// the body content, the parsed body nodes, and the bytes from the body
// close tag onward. Offsets into src are taken around each decoder
// token so raw spans stay byte-exact.
func parseDocumentXML(src []byte) (prefix []byte, body []node, suffix []byte, err error) {
	dec := xml.NewDecoder(bytes.NewReader(src))

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil, nil, errors.New("no body element found")
			}
			return nil, nil, nil, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			prefix = src[:dec.InputOffset()]
			break
		}
	}

	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("body truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(dec, src, pos)
				if err != nil {
					return nil, nil, nil, err
				}
				body = append(body, p)
			case "tbl":
				tbl, err := parseTable(dec, src, pos)
				if err != nil {
					return nil, nil, nil, err
				}
				body = append(body, tbl)
			default:
				if err := dec.Skip(); err != nil {
					return nil, nil, nil, err
				}
				body = append(body, rawNode(src[pos:dec.InputOffset()]))
			}
		case xml.EndElement:
			if t.Name.Local != "body" {
				return nil, nil, nil, fmt.Errorf("unexpected end element %s in body", t.Name.Local)
			}
			suffix = src[pos:]
			return prefix, body, suffix, nil
		default:
			body = append(body, rawNode(src[pos:dec.InputOffset()]))
		}
	}
}

func parseParagraph(dec *xml.Decoder, src []byte, start int64) (*Paragraph, error) {
	p := &Paragraph{openTag: src[start:dec.InputOffset()]}
	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("paragraph truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				run, err := parseRun(dec, src, pos)
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, run)
				continue
			}
			if err := dec.Skip(); err != nil {
				return nil, err
			}
			p.children = append(p.children, rawNode(src[pos:dec.InputOffset()]))
		case xml.EndElement:
			p.raw = src[start:dec.InputOffset()]
			return p, nil
		default:
			p.children = append(p.children, rawNode(src[pos:dec.InputOffset()]))
		}
	}
}

func parseRun(dec *xml.Decoder, src []byte, start int64) (*Run, error) {
	r := &Run{openTag: src[start:dec.InputOffset()]}
	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("run truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				r.props = src[pos:dec.InputOffset()]
			case "t":
				text, err := readText(dec)
				if err != nil {
					return nil, err
				}
				r.text += text
			default:
				// non-text run content (tabs, breaks, drawings) lives
				// only in the raw span; regeneration drops it
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			r.raw = src[start:dec.InputOffset()]
			return r, nil
		}
	}
}

func readText(dec *xml.Decoder) (string, error) {
	var b bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("text element truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			return b.String(), nil
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", err
			}
		}
	}
}

func parseTable(dec *xml.Decoder, src []byte, start int64) (*Table, error) {
	tbl := &Table{openTag: src[start:dec.InputOffset()]}
	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := parseRow(dec, src, pos)
				if err != nil {
					return nil, err
				}
				tbl.children = append(tbl.children, row)
				continue
			}
			if err := dec.Skip(); err != nil {
				return nil, err
			}
			tbl.children = append(tbl.children, rawNode(src[pos:dec.InputOffset()]))
		case xml.EndElement:
			tbl.raw = src[start:dec.InputOffset()]
			return tbl, nil
		default:
			tbl.children = append(tbl.children, rawNode(src[pos:dec.InputOffset()]))
		}
	}
}

func parseRow(dec *xml.Decoder, src []byte, start int64) (*Row, error) {
	row := &Row{openTag: src[start:dec.InputOffset()]}
	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table row truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				cell, err := parseCell(dec, src, pos)
				if err != nil {
					return nil, err
				}
				row.children = append(row.children, cell)
				continue
			}
			if err := dec.Skip(); err != nil {
				return nil, err
			}
			row.children = append(row.children, rawNode(src[pos:dec.InputOffset()]))
		case xml.EndElement:
			row.raw = src[start:dec.InputOffset()]
			return row, nil
		default:
			row.children = append(row.children, rawNode(src[pos:dec.InputOffset()]))
		}
	}
}

func parseCell(dec *xml.Decoder, src []byte, start int64) (*Cell, error) {
	cell := &Cell{openTag: src[start:dec.InputOffset()]}
	for {
		pos := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("table cell truncated: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(dec, src, pos)
				if err != nil {
					return nil, err
				}
				cell.children = append(cell.children, p)
			case "tbl":
				nested, err := parseTable(dec, src, pos)
				if err != nil {
					return nil, err
				}
				cell.children = append(cell.children, nested)
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				cell.children = append(cell.children, rawNode(src[pos:dec.InputOffset()]))
			}
		case xml.EndElement:
			cell.raw = src[start:dec.InputOffset()]
			return cell, nil
		default:
			cell.children = append(cell.children, rawNode(src[pos:dec.InputOffset()]))
		}
	}
}
