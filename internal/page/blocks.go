package page

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/andymabb/Petra/internal/seasonal"
)

// ExtractedBlock is a seasonal region lifted out of a page, with its day
// range still in authored form.
type ExtractedBlock struct {
	Slug     string
	Title    string
	StartRaw string
	EndRaw   string
	BodyHTML string
}

// Range parses the block's bounds. ok is false if either is malformed.
func (b ExtractedBlock) Range() (start, end int, ok bool) {
	start, ok = seasonal.ParseDay(b.StartRaw)
	if !ok {
		return 0, 0, false
	}
	end, ok = seasonal.ParseDay(b.EndRaw)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// Blocks extracts every seasonal region. Regions without an id get a slug
// derived from prefix and their position in the page.
func (d *Document) Blocks(prefix string) ([]ExtractedBlock, error) {
	var blocks []ExtractedBlock
	for i, r := range d.Regions() {
		n := r.(*Region).node

		slug := getAttr(n, "id")
		if slug == "" {
			slug = fmt.Sprintf("%s-%d", prefix, i+1)
		}

		var title string
		if h := findFirst(n, isHeading); h != nil {
			title = textContent(h)
		}

		var body bytes.Buffer
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&body, c); err != nil {
				return nil, fmt.Errorf("render block %s: %w", slug, err)
			}
		}

		blocks = append(blocks, ExtractedBlock{
			Slug:     slug,
			Title:    title,
			StartRaw: getAttr(n, seasonal.AttrDayStart),
			EndRaw:   getAttr(n, seasonal.AttrDayEnd),
			BodyHTML: string(bytes.TrimSpace(body.Bytes())),
		})
	}
	return blocks, nil
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
