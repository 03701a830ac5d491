package pdf2odt

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// xmlNamespace is the reserved XML namespace carrying xml:id attributes.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// teiNode is one element of the decoded TEI tree. Text holds the character
// data before the first child; Tail holds the character data that follows
// the element inside its parent. Keeping tails per element preserves mixed
// content in document order, which the paragraph inline rules depend on.
type teiNode struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Tail     string
	Children []*teiNode
}

// attr returns the value of the first attribute with the given local name,
// or "" if absent. Namespace prefixes are ignored: TEI output from GROBID
// uses a single namespace and the parser matches local names only.
func (n *teiNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// xmlID returns the value of the xml:id attribute, or "".
func (n *teiNode) xmlID() string {
	for _, a := range n.Attrs {
		if a.Name.Local != "id" {
			continue
		}
		if a.Name.Space == "xml" || a.Name.Space == xmlNamespace {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name, or nil.
func (n *teiNode) child(name string) *teiNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children with the given local name.
func (n *teiNode) childrenNamed(name string) []*teiNode {
	var out []*teiNode
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// descendant returns the first descendant with the given local name in
// depth-first document order, or nil.
func (n *teiNode) descendant(name string) *teiNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if d := c.descendant(name); d != nil {
			return d
		}
	}
	return nil
}

// descendants returns all descendants with the given local name in
// depth-first document order.
func (n *teiNode) descendants(name string) []*teiNode {
	var out []*teiNode
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, c.descendants(name)...)
	}
	return out
}

// flatten returns all character data beneath n concatenated in document
// order, ignoring element boundaries.
func (n *teiNode) flatten() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *teiNode) writeText(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.writeText(b)
		b.WriteString(c.Tail)
	}
}

// textPieces appends each non-empty text fragment beneath n in document
// order. Used where fragments are rejoined with separators.
func (n *teiNode) textPieces(out []string) []string {
	if n.Text != "" {
		out = append(out, n.Text)
	}
	for _, c := range n.Children {
		out = c.textPieces(out)
		if c.Tail != "" {
			out = append(out, c.Tail)
		}
	}
	return out
}

// decodeTEI builds a teiNode tree from raw XML. Character data before an
// element's first child lands in Text; data after a child lands in that
// child's Tail.
func decodeTEI(data []byte) (*teiNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *teiNode
	var stack []*teiNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &teiNode{Name: t.Name.Local, Attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			} else {
				last := cur.Children[len(cur.Children)-1]
				last.Tail += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

// titlePlaceholder is used when the TEI carries no main title.
const titlePlaceholder = "N/A"

// ParseTEI parses a TEI document into the structural document model.
// Missing fields degrade to empty or default values; only XML-level
// failures return an error (wrapped ErrParseTEI). The result for a given
// input is deterministic: parsing the same bytes twice yields structurally
// identical documents.
func ParseTEI(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTEI
	}

	root, err := decodeTEI(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseTEI, err)
	}

	doc := &Document{
		Title:      parseTitle(root),
		Authors:    parseAuthors(root),
		Abstract:   parseAbstract(root),
		References: parseReferences(root),
	}

	if text := root.descendant("text"); text != nil {
		if body := text.child("body"); body != nil {
			doc.Body = parseBody(body, nil)
		}
	}

	return doc, nil
}

// parseTitle extracts the main title from the title statement.
func parseTitle(root *teiNode) string {
	ts := root.descendant("titleStmt")
	if ts == nil {
		return titlePlaceholder
	}
	for _, title := range ts.childrenNamed("title") {
		if title.attr("type") == "main" {
			return title.Text
		}
	}
	return titlePlaceholder
}

// parseAuthors extracts author names from the source description, joining
// forename and surname with a space. Entries with no usable name are
// skipped; source order is preserved.
func parseAuthors(root *teiNode) []string {
	sd := root.descendant("sourceDesc")
	if sd == nil {
		return nil
	}
	var authors []string
	for _, author := range sd.descendants("author") {
		pers := author.child("persName")
		if pers == nil {
			continue
		}
		var parts []string
		if fn := pers.child("forename"); fn != nil {
			parts = append(parts, fn.Text)
		}
		if sn := pers.child("surname"); sn != nil {
			parts = append(parts, sn.Text)
		}
		full := strings.Join(parts, " ")
		if full != "" {
			authors = append(authors, full)
		}
	}
	return authors
}

// parseAbstract flattens all text under the profile description's abstract
// element into one trimmed string; empty if absent.
func parseAbstract(root *teiNode) string {
	pd := root.descendant("profileDesc")
	if pd == nil {
		return ""
	}
	abstract := pd.child("abstract")
	if abstract == nil {
		return ""
	}
	return strings.TrimSpace(abstract.flatten())
}

// parseBody walks body content depth-first. div elements are transparent
// containers; unrecognized tags are skipped so newer TEI vocabularies do
// not break older parsers.
func parseBody(parent *teiNode, blocks []Block) []Block {
	for _, elem := range parent.Children {
		switch elem.Name {
		case "head":
			blocks = append(blocks, Block{
				Kind: KindHeading,
				Text: strings.TrimSpace(elem.flatten()),
			})
		case "p":
			blocks = append(blocks, Block{
				Kind:  KindParagraph,
				Spans: parseInline(elem),
			})
		case "div":
			blocks = parseBody(elem, blocks)
		case "figure":
			if elem.attr("type") != "table" {
				continue
			}
			// A table-typed figure without a nested table yields no block.
			rows, ok := parseTable(elem)
			if !ok {
				continue
			}
			blocks = append(blocks, Block{Kind: KindTable, Rows: rows})
		}
	}
	return blocks
}

// parseInline walks paragraph content preserving surrounding literal text
// at every nesting level. A bibliographic ref becomes a citation span with
// its leading fragment marker stripped from the target; other children are
// inlined transparently. Trailing text after any child becomes a following
// text span.
func parseInline(p *teiNode) []Span {
	var spans []Span
	var recurse func(n *teiNode)
	recurse = func(n *teiNode) {
		if n.Text != "" {
			spans = append(spans, Span{Kind: SpanText, Text: n.Text})
		}
		for _, c := range n.Children {
			if c.Name == "ref" && c.attr("type") == "bibr" {
				spans = append(spans, Span{
					Kind:   SpanCitation,
					Text:   c.flatten(),
					Target: strings.TrimLeft(c.attr("target"), "#"),
				})
			} else {
				recurse(c)
			}
			if c.Tail != "" {
				spans = append(spans, Span{Kind: SpanText, Text: c.Tail})
			}
		}
	}
	recurse(p)
	return spans
}

// parseTable extracts row/cell text from the table nested in a figure.
// The second return is false when the figure holds no table element.
func parseTable(figure *teiNode) ([][]string, bool) {
	table := figure.child("table")
	if table == nil {
		return nil, false
	}
	rows := [][]string{}
	for _, row := range table.descendants("row") {
		var cells []string
		for _, cell := range row.childrenNamed("cell") {
			cells = append(cells, strings.TrimSpace(cell.flatten()))
		}
		rows = append(rows, cells)
	}
	return rows, true
}

// parseReferences collects bibliography entries from the back matter.
// Entries without an xml:id get sequential synthesized ids, which keeps
// ids unique within the document.
func parseReferences(root *teiNode) []Reference {
	back := root.descendant("back")
	if back == nil {
		return nil
	}
	var refs []Reference
	for _, list := range back.descendants("listBibl") {
		for _, bibl := range list.descendants("biblStruct") {
			id := bibl.xmlID()
			if id == "" {
				id = fmt.Sprintf("ref_%d", len(refs)+1)
			}
			text := strings.TrimSpace(strings.Join(bibl.textPieces(nil), " "))
			refs = append(refs, Reference{ID: id, Text: text})
		}
	}
	return refs
}
