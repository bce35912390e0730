// Package htmlscan finds and rewrites asset references in HTML documents.
//
// This package is used by:
//   - Localize: discover remote asset URLs and rewrite them to local paths
//   - Render: parse generated article pages when chaining localization
//
// # Reference Model
//
// A parsed Document yields a flat list of Refs, one per URL-bearing location:
// img/source attributes (src, srcset, data-src, data-original), stylesheet
// link hrefs, inline style attributes, and <style> block text. Each Ref
// exposes Get and Set so callers mutate the tree without re-traversing it.
// Attribute refs hold a single URL, srcset refs hold comma-separated
// URL+descriptor entries, and style refs hold CSS text whose url(...)
// values are rewritten in place through ReplaceCSSURLs.
//
// # Remote URL Rules
//
// A candidate counts as remote only when its scheme is http or https after
// resolving protocol-relative references (//host/path becomes https://).
// data: URIs and every other scheme are ignored. Malformed CSS never fails
// a whole style block; the pattern scan simply skips whatever it cannot
// match.
package htmlscan
