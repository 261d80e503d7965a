package infra

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"coinboard/internal/domain"

	"github.com/disintegration/imaging"
)

// IconSize is the edge length, in pixels, of saved icons
const IconSize = 24

// IconDownloader handles downloading and caching coin icons
type IconDownloader struct {
	basePath string
	client   *http.Client
}

// NewIconDownloader creates a new IconDownloader saving under dir.
// An empty dir resolves to the per-user assets directory.
func NewIconDownloader(dir string) (*IconDownloader, error) {
	path := dir
	if path == "" {
		var err error
		path, err = getAssetsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve assets path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &IconDownloader{
		basePath: path,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}, nil
}

// DownloadIcon downloads the coin's snapshot image if it doesn't exist.
// Returns the local file path on success.
// Images are resized to 24x24 pixels for consistent UI display
func (d *IconDownloader) DownloadIcon(ctx context.Context, coin domain.MarketCoin) (string, error) {
	// Security: Sanitize id to prevent path traversal
	safeID := sanitizeID(coin.ID)
	if safeID == "" {
		return "", fmt.Errorf("invalid coin id: %q", coin.ID)
	}
	if coin.ImageURL == "" {
		return "", fmt.Errorf("coin %s has no image", coin.ID)
	}

	filePath := filepath.Join(d.basePath, safeID+".png")

	// Check if exists
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil // Already exists (Cache Hit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coin.ImageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	// Decode the image
	srcImg, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Resize with high-quality Lanczos filter
	resizedImg := imaging.Resize(srcImg, IconSize, IconSize, imaging.Lanczos)

	if err := writeIcon(filePath, resizedImg); err != nil {
		return "", fmt.Errorf("failed to save resized image: %w", err)
	}

	return filePath, nil
}

// writeIcon encodes img as PNG next to path and renames it into place,
// so a partial file is never taken for a cached icon.
func writeIcon(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".icon-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func getAssetsPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "coinboard", "assets", "icons"), nil
}

// sanitizeID keeps the characters CoinGecko uses in ids
func sanitizeID(id string) string {
	res := make([]rune, 0, len(id))
	for _, r := range strings.ToLower(id) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			res = append(res, r)
		}
	}
	return string(res)
}
