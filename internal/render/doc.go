// Package render converts mirrored article JSON files into styled HTML pages.
//
// Each article carries a title and an HTML content fragment. Rendering
// substitutes both into a page template ({TITLE} and {CONTENT} placeholders)
// after stripping the empty and doubly nested paragraph markup the upstream
// editor leaves behind. RenderDir mirrors the content directory structure
// into the output directory, and WriteIndex adds a linked table of contents.
//
// A template file can be configured under [paths]; when it is absent the
// embedded default is used, so rendering works without any setup.
package render
