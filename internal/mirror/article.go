package mirror

import "time"

// Status enumerates the ledger states of a mirrored article.
type Status string

const (
	// StatusPending marks an article seen in the sheet but not yet fetched.
	StatusPending Status = "pending"
	// StatusFetched marks an article downloaded and written by a run.
	StatusFetched Status = "fetched"
	// StatusExists marks an article whose destination file was already on
	// disk, so the fetch was skipped.
	StatusExists Status = "exists"
	// StatusFailed marks an article whose fetch or write failed. Failed
	// articles are skipped by later runs until reset via retry.
	StatusFailed Status = "failed"
)

// Statuses lists every ledger status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusFetched, StatusExists, StatusFailed}
}

// ValidStatus reports whether value names a known ledger status.
func ValidStatus(value string) bool {
	switch Status(value) {
	case StatusPending, StatusFetched, StatusExists, StatusFailed:
		return true
	}
	return false
}

// Article is one ledger row: a post link with its derived destination and
// the outcome of the most recent attempt to mirror it.
type Article struct {
	ID           int64
	Link         string
	Category     string
	Slug         string
	Path         string
	Status       Status
	RunID        string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DestPath returns the article's destination file under mirrorDir.
func (a *Article) DestPath(mirrorDir string) string {
	return destPath(mirrorDir, a.Category, a.Slug)
}
