package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"

	"github.com/Jrchintu/a2z-old-sheet/internal/fetch"
	"github.com/Jrchintu/a2z-old-sheet/internal/fileutil"
	"github.com/Jrchintu/a2z-old-sheet/internal/logging"
	"github.com/Jrchintu/a2z-old-sheet/internal/services"
	"github.com/Jrchintu/a2z-old-sheet/internal/textutil"
)

// hashPrefixLen is the number of content-hash hex characters used in final
// cache filenames.
const hashPrefixLen = 32

// Downloader streams remote assets into the cache directory and names them by
// content hash. It does not touch the index; callers record successful
// downloads themselves.
type Downloader struct {
	store    *Store
	client   *fetch.Client
	logger   *slog.Logger
	maxBytes int64
}

// NewDownloader wires a downloader against an opened store. maxBytes caps the
// size of a single asset; zero or negative disables the ceiling.
func NewDownloader(store *Store, client *fetch.Client, maxBytes int64, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Downloader{
		store:    store,
		client:   client,
		logger:   logging.NewComponentLogger(logger, "assetcache"),
		maxBytes: maxBytes,
	}
}

// Fetch downloads url into the cache and returns the content-addressed cache
// filename. Distinct URLs whose bodies are byte-identical resolve to the same
// filename; the redundant download is discarded. On failure no partial file
// remains in the cache directory.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, error) {
	tempPath := d.store.Path(tempFilename(url))

	if err := d.client.Download(ctx, url, tempPath, d.maxBytes); err != nil {
		return "", services.Wrap(services.ErrFetch, "assetcache", "download", url, err)
	}

	hash, err := fileutil.HashFile(tempPath)
	if err != nil {
		os.Remove(tempPath)
		return "", services.Wrap(services.ErrFetch, "assetcache", "hash", url, err)
	}

	finalName := hash[:hashPrefixLen] + textutil.ExtFromURL(url)
	finalPath := d.store.Path(finalName)

	deduplicated := false
	if _, err := os.Stat(finalPath); err == nil {
		// Same content already cached under another URL.
		os.Remove(tempPath)
		deduplicated = true
	} else if err := fileutil.MoveFile(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", services.Wrap(services.ErrFetch, "assetcache", "store", url, err)
	}

	d.logger.Debug("downloaded asset",
		logging.String(logging.FieldAssetURL, url),
		logging.String("filename", finalName),
		logging.String("content", textutil.Ternary(deduplicated, "already_cached", "stored")))

	return finalName, nil
}

// tempFilename derives an in-flight name from a hash of the URL string, so
// concurrent downloads of different URLs never share a temp file.
func tempFilename(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "temp_" + hex.EncodeToString(sum[:]) + textutil.ExtFromURL(url)
}
