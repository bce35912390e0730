package htmlscan

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Kind identifies how a Ref's value is interpreted.
type Kind int

const (
	// KindAttr holds a single URL in a plain attribute.
	KindAttr Kind = iota
	// KindSrcset holds a comma-separated list of URL+descriptor entries.
	KindSrcset
	// KindStyleAttr holds inline CSS text on a style attribute.
	KindStyleAttr
	// KindStyleBlock holds the text content of a <style> element.
	KindStyleBlock
)

// Ref is a mutable handle on one URL-bearing location in a parsed document.
type Ref struct {
	Node *html.Node
	Kind Kind
	Attr string
}

// Get returns the ref's current raw value.
func (r Ref) Get() string {
	if r.Kind == KindStyleBlock {
		if text, ok := styleText(r.Node); ok {
			return text
		}
		return ""
	}
	value, _ := getAttr(r.Node, r.Attr)
	return value
}

// Set writes a new raw value back to the ref's location in the tree.
func (r Ref) Set(value string) {
	if r.Kind == KindStyleBlock {
		if _, ok := styleText(r.Node); ok {
			r.Node.FirstChild.Data = value
		}
		return
	}
	setAttr(r.Node, r.Attr, value)
}

// Document wraps one parsed HTML file.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document. The underlying parser is
// tolerant, so malformed markup yields a best-effort tree rather than an
// error.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFile parses the HTML document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Render serializes the document to w.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Refs returns every URL-bearing location in the document, grouped the way
// the rewrite phase consumes them: img/source attributes first, then
// stylesheet links, then inline style attributes, then <style> blocks.
// Each group is in document order.
func (d *Document) Refs() []Ref {
	var refs []Ref

	d.walk(func(n *html.Node) {
		if n.Data != "img" && n.Data != "source" {
			return
		}
		for _, attr := range [...]string{"src", "srcset", "data-src", "data-original"} {
			if _, ok := getAttr(n, attr); !ok {
				continue
			}
			kind := KindAttr
			if attr == "srcset" {
				kind = KindSrcset
			}
			refs = append(refs, Ref{Node: n, Kind: kind, Attr: attr})
		}
	})

	d.walk(func(n *html.Node) {
		if n.Data != "link" || !relContains(n, "stylesheet") {
			return
		}
		if _, ok := getAttr(n, "href"); ok {
			refs = append(refs, Ref{Node: n, Kind: KindAttr, Attr: "href"})
		}
	})

	d.walk(func(n *html.Node) {
		if value, ok := getAttr(n, "style"); ok && value != "" {
			refs = append(refs, Ref{Node: n, Kind: KindStyleAttr, Attr: "style"})
		}
	})

	d.walk(func(n *html.Node) {
		if n.Data != "style" {
			return
		}
		if text, ok := styleText(n); ok && text != "" {
			refs = append(refs, Ref{Node: n, Kind: KindStyleBlock})
		}
	})

	return refs
}

// RemoteURLs returns the distinct remote asset URLs referenced by the
// document, in first-seen order.
func (d *Document) RemoteURLs() []string {
	var urls []string
	seen := make(map[string]struct{})
	record := func(raw string) {
		remote, ok := NormalizeRemote(raw)
		if !ok {
			return
		}
		if _, dup := seen[remote]; dup {
			return
		}
		seen[remote] = struct{}{}
		urls = append(urls, remote)
	}

	for _, ref := range d.Refs() {
		switch ref.Kind {
		case KindSrcset:
			for _, entry := range ParseSrcset(ref.Get()) {
				record(entry.URL)
			}
		case KindStyleAttr, KindStyleBlock:
			for _, cssURL := range CSSURLs(ref.Get()) {
				record(cssURL)
			}
		default:
			record(ref.Get())
		}
	}
	return urls
}

// NormalizeRemote reports the fetchable form of a raw reference. Leading and
// trailing whitespace is trimmed and protocol-relative references gain an
// https scheme. ok is false for empty values, data: URIs, and any scheme
// other than http or https.
func NormalizeRemote(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "data:") {
		return "", false
	}
	if strings.HasPrefix(trimmed, "//") {
		trimmed = "https:" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return trimmed, true
	}
	return "", false
}

func (d *Document) walk(visit func(*html.Node)) {
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(d.root)
}

// styleText returns the text of a <style> element holding exactly one text
// child. Elements with mixed or empty content are skipped the same way the
// extraction pass skips them.
func styleText(n *html.Node) (string, bool) {
	if n == nil || n.FirstChild == nil || n.FirstChild != n.LastChild {
		return "", false
	}
	if n.FirstChild.Type != html.TextNode {
		return "", false
	}
	return n.FirstChild.Data, true
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func relContains(n *html.Node, want string) bool {
	rel, ok := getAttr(n, "rel")
	if !ok {
		return false
	}
	for _, field := range strings.Fields(rel) {
		if strings.EqualFold(field, want) {
			return true
		}
	}
	return false
}
