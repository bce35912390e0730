package config

const (
	defaultContentDir       = "~/a2z/content/articles"
	defaultOutputDir        = "~/a2z/public/articles"
	defaultMirrorDir        = "~/a2z/content/articles"
	defaultLedgerPath       = "~/.local/share/a2z/ledger.db"
	defaultLogDir           = "~/.local/share/a2z/logs"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultHTTPTimeoutSeconds  = 30
	defaultRetryMaxAttempts    = 3
	defaultRetryBackoffSeconds = 0.3
	defaultUserAgent           = "Mozilla/5.0 (compatible; asset-downloader/1.0)"

	defaultAssetsDirName = "assets"
	defaultCacheDirName  = ".asset_cache"
	defaultWorkers       = 10
	defaultMaxAssetMiB   = 100

	defaultMirrorAPIBaseURL = "https://backend.takeuforward.org/api/blog/article"

	defaultNotifyRequestTimeout = 10
)

func defaultRetryStatuses() []int {
	return []int{429, 500, 502, 503, 504}
}

func defaultTrackingParams() []string {
	return []string{
		"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
		"gclid", "fbclid", "msclkid", "mc_cid", "mc_eid", "_ga",
	}
}

func defaultStripAllSites() []string {
	return []string{"geeksforgeeks.org", "codingninjas.com", "leetcode.com"}
}

func defaultShortenerHosts() []string {
	return []string{"bit.ly"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ContentDir: defaultContentDir,
			OutputDir:  defaultOutputDir,
			MirrorDir:  defaultMirrorDir,
			LedgerPath: defaultLedgerPath,
			LogDir:     defaultLogDir,
		},
		HTTP: HTTP{
			TimeoutSeconds:      defaultHTTPTimeoutSeconds,
			RetryMaxAttempts:    defaultRetryMaxAttempts,
			RetryBackoffSeconds: defaultRetryBackoffSeconds,
			RetryStatuses:       defaultRetryStatuses(),
			UserAgent:           defaultUserAgent,
			VerifyTLS:           true,
		},
		Localize: Localize{
			AssetsDirName: defaultAssetsDirName,
			CacheDirName:  defaultCacheDirName,
			Workers:       defaultWorkers,
			MaxAssetMiB:   defaultMaxAssetMiB,
		},
		Mirror: Mirror{
			Workers:    defaultWorkers,
			APIBaseURL: defaultMirrorAPIBaseURL,
		},
		Clean: Clean{
			TrackingParams: defaultTrackingParams(),
			StripAllSites:  defaultStripAllSites(),
			ShortenerHosts: defaultShortenerHosts(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
