package mirror

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jrchintu/a2z-old-sheet/internal/services"
	"github.com/Jrchintu/a2z-old-sheet/internal/textutil"
)

// Sheet is the top-level structure of the course sheet file: an ordered list
// of steps, each holding sub-steps whose topics carry the article links.
type Sheet []Step

// Step is one numbered section of the sheet.
type Step struct {
	Title    string    `json:"step_title"`
	SubSteps []SubStep `json:"sub_steps"`
}

// SubStep groups the topics under a step.
type SubStep struct {
	Title  string  `json:"sub_step_title"`
	Topics []Topic `json:"topics"`
}

// Topic is a single sheet entry. PostLink is empty for topics that have no
// published article yet.
type Topic struct {
	Title    string `json:"question_title"`
	PostLink string `json:"post_link"`
}

// Plan describes one article fetch derived from a topic's post link.
type Plan struct {
	// Link is the original post link, used as the ledger key.
	Link string
	// Title is the topic's question title, if the sheet provides one.
	Title string
	// Category is the sanitized first path segment of the link.
	Category string
	// Slug is the sanitized last path segment of the link.
	Slug string
	// Path is the raw link path handed to the article API.
	Path string
	// Dest is the destination file under the mirror directory.
	Dest string
}

// LoadSheet reads and decodes the sheet file at path.
func LoadSheet(path string) (Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "mirror", "read sheet",
			fmt.Sprintf("cannot read sheet %q", path), err)
	}
	return ParseSheet(data)
}

// ParseSheet decodes sheet JSON.
func ParseSheet(data []byte) (Sheet, error) {
	var sheet Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, services.Wrap(services.ErrParse, "mirror", "parse sheet", "sheet is not valid JSON", err)
	}
	return sheet, nil
}

// Topics returns every topic carrying a post link, in sheet order.
func (s Sheet) Topics() []Topic {
	var topics []Topic
	for _, step := range s {
		for _, subStep := range step.SubSteps {
			for _, topic := range subStep.Topics {
				if topic.PostLink != "" {
					topics = append(topics, topic)
				}
			}
		}
	}
	return topics
}

// PlanTopic derives the fetch plan for one topic. ok is false when the link
// yields no usable slug, which the caller should log and skip.
func PlanTopic(topic Topic, mirrorDir string) (Plan, bool) {
	parsed, err := url.Parse(topic.PostLink)
	if err != nil {
		return Plan{}, false
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return Plan{}, false
	}

	parts := strings.Split(path, "/")
	category := textutil.SanitizeSlug(parts[0])
	slug := textutil.SanitizeSlug(parts[len(parts)-1])
	if slug == "" {
		return Plan{}, false
	}

	return Plan{
		Link:     topic.PostLink,
		Title:    topic.Title,
		Category: category,
		Slug:     slug,
		Path:     path,
		Dest:     destPath(mirrorDir, category, slug),
	}, true
}

func destPath(mirrorDir, category, slug string) string {
	return filepath.Join(mirrorDir, category, slug+".json")
}
