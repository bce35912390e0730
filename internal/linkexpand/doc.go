// Package linkexpand replaces shortened links in a file with the URLs they
// redirect to.
//
// Candidate links are found by host pattern ([clean].shortener_hosts,
// bit.ly by default) and each distinct link is resolved once with a HEAD
// request on a short timeout. Links that fail to resolve keep their
// shortened form so the output file is never worse than the input.
package linkexpand
