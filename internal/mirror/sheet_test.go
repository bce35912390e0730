package mirror_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/mirror"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

const sampleSheet = `[
  {
    "step_title": "Learn the basics",
    "sub_steps": [
      {
        "sub_step_title": "Things to Know",
        "topics": [
          {"question_title": "User Input / Output", "post_link": "https://takeuforward.org/c/basic-io"},
          {"question_title": "Data Types", "post_link": ""},
          {"question_title": "Patterns", "post_link": "https://takeuforward.org/strivers-a2z-sheet/star-patterns"}
        ]
      }
    ]
  },
  {
    "step_title": "Sorting",
    "sub_steps": [
      {
        "sub_step_title": "Sorting I",
        "topics": [
          {"question_title": "Selection Sort", "post_link": "https://takeuforward.org/sorting/selection-sort-algorithm"}
        ]
      }
    ]
  }
]`

func TestParseSheetCollectsLinkedTopics(t *testing.T) {
	sheet, err := mirror.ParseSheet([]byte(sampleSheet))
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}

	topics := sheet.Topics()
	if len(topics) != 3 {
		t.Fatalf("expected 3 linked topics, got %d", len(topics))
	}
	if topics[0].Title != "User Input / Output" {
		t.Errorf("unexpected first topic title %q", topics[0].Title)
	}
	if topics[2].PostLink != "https://takeuforward.org/sorting/selection-sort-algorithm" {
		t.Errorf("unexpected last link %q", topics[2].PostLink)
	}
}

func TestParseSheetRejectsInvalidJSON(t *testing.T) {
	_, err := mirror.ParseSheet([]byte("not json"))
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadSheetMissingFileFails(t *testing.T) {
	_, err := mirror.LoadSheet(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlanTopic(t *testing.T) {
	mirrorDir := "/data/articles"

	tests := []struct {
		name         string
		link         string
		wantOK       bool
		wantCategory string
		wantSlug     string
		wantPath     string
	}{
		{
			name:         "category and slug from path",
			link:         "https://takeuforward.org/data-structure/binary-search-explained",
			wantOK:       true,
			wantCategory: "data-structure",
			wantSlug:     "binary-search-explained",
			wantPath:     "data-structure/binary-search-explained",
		},
		{
			name:         "single segment uses itself for both",
			link:         "https://takeuforward.org/plus",
			wantOK:       true,
			wantCategory: "plus",
			wantSlug:     "plus",
			wantPath:     "plus",
		},
		{
			name:         "unsafe characters removed",
			link:         "https://takeuforward.org/c++ tricks/two sum (easy)",
			wantOK:       true,
			wantCategory: "c_tricks",
			wantSlug:     "two_sum_easy",
			wantPath:     "c++ tricks/two sum (easy)",
		},
		{
			name:   "bare host has no slug",
			link:   "https://takeuforward.org/",
			wantOK: false,
		},
		{
			name:   "slug sanitizes to nothing",
			link:   "https://takeuforward.org/dsa/%2B%2B",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, ok := mirror.PlanTopic(mirror.Topic{PostLink: tc.link}, mirrorDir)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if plan.Category != tc.wantCategory {
				t.Errorf("category = %q, want %q", plan.Category, tc.wantCategory)
			}
			if plan.Slug != tc.wantSlug {
				t.Errorf("slug = %q, want %q", plan.Slug, tc.wantSlug)
			}
			if plan.Path != tc.wantPath {
				t.Errorf("path = %q, want %q", plan.Path, tc.wantPath)
			}
			wantDest := filepath.Join(mirrorDir, tc.wantCategory, tc.wantSlug+".json")
			if plan.Dest != wantDest {
				t.Errorf("dest = %q, want %q", plan.Dest, wantDest)
			}
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"binary-search-explained", "Binary Search Explained"},
		{"count_inversions", "Count Inversions"},
		{"kth.largest.element-2", "Kth Largest Element 2"},
		{"---", "---"},
	}
	for _, tc := range tests {
		if got := mirror.DisplayTitle(tc.slug); got != tc.want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", tc.slug, got, tc.want)
		}
	}
}
