package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ContentDir = filepath.Join(base, "content")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.Template = filepath.Join(base, "template.html")
	cfgVal.Paths.MirrorDir = filepath.Join(base, "mirror")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "ledger", "a2z.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Localize.Workers = 2
	cfgVal.Mirror.Workers = 2
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the localize worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Localize.Workers = n
	}
}

// WithAssetsDirName overrides the per-document assets folder name.
func WithAssetsDirName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Localize.AssetsDirName = name
	}
}

// WithAPIBaseURL points the mirror article API at a test server.
func WithAPIBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mirror.APIBaseURL = url
	}
}

// WithNtfyTopic enables notifications against the provided topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}
