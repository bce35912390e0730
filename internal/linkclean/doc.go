// Package linkclean strips tracking parameters from URLs, in single URLs or
// across every URL a file contains.
//
// Three rules apply, in order:
//
//  1. Strip-all hosts (configured under [clean].strip_all_sites) lose their
//     entire query string and fragment.
//  2. YouTube links collapse to the canonical watch URL, keeping only the
//     video ID and an optional t timestamp.
//  3. Everything else drops the configured tracking parameters. Remaining
//     parameters keep their original order, and parameter values that are
//     themselves URLs are decoded and cleaned recursively.
//
// A URL that cannot be parsed is returned unchanged: the cleaner must never
// corrupt a link it does not understand. File cleaning replaces only quoted
// occurrences, so a URL that is a prefix of a longer one is never clipped.
package linkclean
