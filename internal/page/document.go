// Package page applies seasonal resolution to HTML documents.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/andymabb/Petra/internal/seasonal"
)

const (
	// SeasonalClass marks a seasonal content region.
	SeasonalClass = "seasonal-content"

	// JSEnabledClass is set on <html> once the page has been resolved.
	JSEnabledClass = "js-enabled"

	// IndicatorID identifies the test-mode overlay element.
	IndicatorID = "test-mode-indicator"

	indicatorStyle = "position: fixed; top: 10px; right: 10px; background: #ff9800; color: white; " +
		"padding: 10px 15px; border-radius: 5px; font-family: Arial, sans-serif; font-size: 14px; " +
		"box-shadow: 0 2px 5px rgba(0,0,0,0.3); z-index: 10000;"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Bytes renders the document into a byte slice.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Regions returns every seasonal content element in document order.
func (d *Document) Regions() []seasonal.Region {
	var regions []seasonal.Region
	for _, n := range findAll(d.root, func(n *html.Node) bool { return hasClass(n, SeasonalClass) }) {
		regions = append(regions, &Region{node: n})
	}
	return regions
}

// MarkJSEnabled adds the js-enabled class to the <html> element. Calling it
// again has no effect.
func (d *Document) MarkJSEnabled() {
	if n := findFirst(d.root, isElement(atom.Html)); n != nil {
		addClass(n, JSEnabledClass)
	}
}

// SetIndicator replaces the test-mode overlay with one for ind. A nil
// indicator only removes the existing overlay.
func (d *Document) SetIndicator(ind *seasonal.Indicator) {
	for _, n := range findAll(d.root, func(n *html.Node) bool { return getAttr(n, "id") == IndicatorID }) {
		n.Parent.RemoveChild(n)
	}
	if ind == nil {
		return
	}

	body := findFirst(d.root, isElement(atom.Body))
	if body == nil {
		return
	}

	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: IndicatorID},
			{Key: "style", Val: indicatorStyle},
		},
	}
	for i, line := range ind.Text() {
		if i > 0 {
			div.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
		}
		text := &html.Node{Type: html.TextNode, Data: line}
		if i == 0 {
			strong := &html.Node{Type: html.ElementNode, Data: "strong", DataAtom: atom.Strong}
			strong.AppendChild(text)
			div.AppendChild(strong)
			continue
		}
		div.AppendChild(text)
	}
	body.AppendChild(div)
}

// Resolve runs r over the document's regions and updates the js-enabled
// marker and test-mode overlay to match.
func (d *Document) Resolve(r *seasonal.Resolver, p seasonal.Params) seasonal.Result {
	d.MarkJSEnabled()
	res := r.Run(d.Regions(), p)
	d.SetIndicator(res.Indicator)
	return res
}

// Region is a seasonal content element.
type Region struct {
	node *html.Node
}

// Attr returns the element attribute, or "" when absent.
func (r *Region) Attr(name string) string {
	return getAttr(r.node, name)
}

// SetVisible writes display: block or display: none into the inline
// style, keeping any other declarations.
func (r *Region) SetVisible(visible bool) {
	display := "none"
	if visible {
		display = "block"
	}
	setAttr(r.node, "style", setDisplay(getAttr(r.node, "style"), display))
}

// Visible reports whether the inline style currently shows the element.
func (r *Region) Visible() bool {
	for _, decl := range strings.Split(getAttr(r.node, "style"), ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), "display") {
			return strings.TrimSpace(val) != "none"
		}
	}
	return true
}

// setDisplay replaces or appends the display declaration in a style string.
func setDisplay(style, display string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, "display: "+display)
	return strings.Join(decls, "; ") + ";"
}
