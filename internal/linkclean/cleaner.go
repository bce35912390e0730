package linkclean

import (
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
)

// maxNestedDepth bounds recursion when cleaning URL-valued parameters, so a
// crafted chain of nested redirect URLs cannot recurse without end.
const maxNestedDepth = 5

// Cleaner removes tracking parameters according to the [clean] config section.
type Cleaner struct {
	tracking map[string]struct{}
	stripAll []string
	logger   *slog.Logger
}

// New constructs a cleaner from the configured tracking parameters and
// strip-all hosts.
func New(cfg *config.Config, logger *slog.Logger) *Cleaner {
	tracking := make(map[string]struct{}, len(cfg.Clean.TrackingParams))
	for _, param := range cfg.Clean.TrackingParams {
		tracking[param] = struct{}{}
	}
	return &Cleaner{
		tracking: tracking,
		stripAll: cfg.Clean.StripAllSites,
		logger:   logging.NewComponentLogger(logger, "clean"),
	}
}

// CleanURL returns rawURL with tracking parameters removed. URLs that cannot
// be parsed come back unchanged.
func (c *Cleaner) CleanURL(rawURL string) string {
	return c.clean(rawURL, 0)
}

func (c *Cleaner) clean(rawURL string, depth int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		c.logger.Warn("cannot parse URL, leaving unchanged",
			logging.String("url", rawURL),
			logging.Error(err))
		return rawURL
	}

	host := parsed.Host
	for _, site := range c.stripAll {
		if strings.Contains(host, site) {
			parsed.RawQuery = ""
			parsed.ForceQuery = false
			parsed.Fragment = ""
			return parsed.String()
		}
	}

	if cleaned, ok := canonicalYouTube(parsed); ok {
		return cleaned
	}

	params := parseQueryOrdered(parsed.RawQuery)
	kept := params[:0]
	for _, param := range params {
		if _, tracked := c.tracking[param.key]; tracked {
			continue
		}
		if param.hasValue && depth < maxNestedDepth {
			param.value = c.cleanNestedValue(param.value, depth)
		}
		kept = append(kept, param)
	}

	parsed.RawQuery = encodeQueryOrdered(kept)
	parsed.ForceQuery = false
	return parsed.String()
}

// cleanNestedValue decodes a parameter value and, when the result is itself
// an absolute URL, cleans it recursively. Non-URL values stay as they were.
func (c *Cleaner) cleanNestedValue(value string, depth int) string {
	decoded := value
	if unescaped, err := url.QueryUnescape(decoded); err == nil {
		decoded = unescaped
	}
	if strings.HasPrefix(decoded, "http://") || strings.HasPrefix(decoded, "https://") {
		return c.clean(decoded, depth+1)
	}
	return value
}

// canonicalYouTube rewrites YouTube links to the watch URL, preserving only
// the video ID and timestamp. ok is false for non-YouTube hosts and for
// YouTube links without a recognizable video ID, which then go through
// regular tracker removal.
func canonicalYouTube(parsed *url.URL) (string, bool) {
	host := parsed.Host
	isYouTube := strings.Contains(host, "youtube.com")
	isShort := strings.Contains(host, "youtu.be")
	if !isYouTube && !isShort {
		return "", false
	}

	params := parseQueryOrdered(parsed.RawQuery)
	videoID := ""
	if isYouTube {
		videoID = firstParam(params, "v")
	} else {
		videoID = strings.TrimLeft(parsed.Path, "/")
	}
	if videoID == "" {
		return "", false
	}

	cleaned := "https://www.youtube.com/watch?v=" + videoID
	if timestamp := firstParam(params, "t"); timestamp != "" {
		cleaned += "&t=" + timestamp
	}
	return cleaned, true
}

// queryParam is one decoded key=value pair. Slices of queryParam preserve the
// order parameters appeared in, which url.Values cannot. hasValue
// distinguishes "?flag" from "?flag=" so bare flags survive a round trip.
type queryParam struct {
	key      string
	value    string
	hasValue bool
}

func parseQueryOrdered(rawQuery string) []queryParam {
	if rawQuery == "" {
		return nil
	}
	var params []queryParam
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		key, value, hasValue := strings.Cut(segment, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		params = append(params, queryParam{key: key, value: value, hasValue: hasValue})
	}
	return params
}

func encodeQueryOrdered(params []queryParam) string {
	var b strings.Builder
	for i, param := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.key))
		if param.hasValue {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(param.value))
		}
	}
	return b.String()
}

func firstParam(params []queryParam, key string) string {
	for _, param := range params {
		if param.key == key {
			return param.value
		}
	}
	return ""
}

// FileSummary reports the outcome of cleaning one file.
type FileSummary struct {
	Input    string
	Output   string
	Found    int
	Changed  int
	Replaced int
}

// CleanFile reads inputPath, cleans every quoted URL in it, and writes the
// result to outputPath. The input file is never modified.
func (c *Cleaner) CleanFile(inputPath, outputPath string) (*FileSummary, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "clean", "read input", "", err)
	}

	content := string(data)
	summary := &FileSummary{Input: inputPath, Output: outputPath}

	for _, rawURL := range FindURLs(content) {
		summary.Found++
		cleaned := c.CleanURL(rawURL)
		if cleaned == rawURL {
			continue
		}
		summary.Changed++
		quoted := `"` + rawURL + `"`
		summary.Replaced += strings.Count(content, quoted)
		content = strings.ReplaceAll(content, quoted, `"`+cleaned+`"`)
		c.logger.Debug("cleaned URL",
			logging.String("original", rawURL),
			logging.String("cleaned", cleaned))
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return nil, services.Wrap(services.ErrStore, "clean", "write output", "", err)
	}

	c.logger.Info("cleaned file",
		logging.String("input", inputPath),
		logging.String("output", outputPath),
		logging.Int("urls_found", summary.Found),
		logging.Int("urls_changed", summary.Changed))
	return summary, nil
}
