package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyImage is reported when a decoded image has zero width or height.
var ErrEmptyImage = errors.New("image has zero width or height")

// InputError reports an image that is absent, unreadable or empty.
//
// No pipeline stage runs for an input that fails with InputError.
type InputError struct {
	// Path is the source file, empty for in-memory images.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input image: %v", e.Err)
	}
	return fmt.Sprintf("invalid input image %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ImageCache keeps decoded source images keyed by path so repeated tool calls
// on one file decode it once. Entries live until Evict or Clear.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at path, reading the file only on a cache
// miss. PNG, JPEG, GIF, BMP, TIFF and WebP are accepted; JPEG EXIF
// orientation is applied. Open or decode failures return *InputError.
//
// Entries are keyed by the literal path string.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.cached(path); ok {
		return img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.images[path]; ok {
		return prev, nil
	}
	c.images[path] = img
	return img, nil
}

func (c *ImageCache) cached(path string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[path]
	return img, ok
}

// LoadGrid loads an image through the cache and converts it to an RGBGrid.
//
// Returns an *InputError wrapping ErrEmptyImage when the decoded image has
// no pixels.
func (c *ImageCache) LoadGrid(path string) (*RGBGrid, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return gridFromDecoded(path, img)
}

// LoadRegionGrid loads an image through the cache, optionally crops it to
// region, and converts the result to an RGBGrid. Grid coordinates are
// relative to (region.X1, region.Y1).
func (c *ImageCache) LoadRegionGrid(path string, region *Region) (*RGBGrid, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	if region != nil {
		img, err = Crop(img, *region)
		if err != nil {
			return nil, err
		}
	}
	return gridFromDecoded(path, img)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the image cached for path, if any. The next Load rereads the file.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadRGB decodes the image at path without caching and converts it to an RGBGrid.
func LoadRGB(path string) (*RGBGrid, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}
	return gridFromDecoded(path, img)
}

func gridFromDecoded(path string, img image.Image) (*RGBGrid, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &InputError{Path: path, Err: ErrEmptyImage}
	}
	return RGBGridFromImage(img), nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
