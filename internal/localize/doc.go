// Package localize rewrites HTML trees so that remote assets are served from
// disk instead of their original hosts.
//
// A run is a single forward pass over three phases: discover walks the content
// root and unions the remote asset URLs referenced by every HTML document,
// download fetches the URLs missing from the content-addressed cache across a
// bounded worker pool, and rewrite points each reference at a copy staged in
// an assets folder next to its document. References whose URLs failed to
// download keep their remote form, so a later run can pick them up. Error
// wrapping and context logging follow the same conventions as the other
// commands so failures classify uniformly.
//
// Dry-run mode walks the same phases but performs no downloads, copies, index
// saves, or document writes; it only reports what a real run would do.
package localize
