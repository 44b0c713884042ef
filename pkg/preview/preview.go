// Package preview turns a selected image file into a displayable data URL.
//
// By default the file bytes are passed through untouched. When MaxSide is
// set, decodable images are downsized so large photos do not bloat the page.
package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Extra decoders for thumbnails
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/skin-analyzer/pkg/types"
)

// MaxPixels is the largest image, by declared width*height, that is decoded
// for a thumbnail. Larger images are shown as-is.
const MaxPixels = 40_000_000

// Config controls preview generation
type Config struct {
	MaxSide  int    // 0 keeps the original bytes
	Format   string // jpg|png|webp, used when thumbnailing
	Quality  int
	Lossless bool
}

// DefaultConfig returns the pass-through configuration
func DefaultConfig() Config {
	return Config{
		MaxSide: 0,
		Format:  "jpg",
		Quality: 85,
	}
}

// Previewer builds preview URLs
type Previewer struct {
	config Config
}

// New creates a pass-through Previewer
func New() *Previewer {
	return &Previewer{config: DefaultConfig()}
}

// NewWithConfig creates a Previewer with custom configuration
func NewWithConfig(config Config) *Previewer {
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	if config.Format == "" {
		config.Format = "jpg"
	}
	return &Previewer{config: config}
}

// URL returns a data URL for the file. A nil file yields an empty URL.
func (p *Previewer) URL(file *types.ImageFile) (string, error) {
	if file == nil {
		return "", nil
	}

	if p.config.MaxSide > 0 {
		if data, contentType, err := p.thumbnail(file.Data); err == nil {
			return DataURL(contentType, data), nil
		}
		// Not decodable, show the file as-is
	}

	return DataURL(ContentType(file), file.Data), nil
}

// ContentType returns the declared content type of the file or sniffs one
func ContentType(file *types.ImageFile) string {
	if file.ContentType != "" {
		return file.ContentType
	}
	return http.DetectContentType(file.Data)
}

// DataURL encodes data as a base64 data URL
func DataURL(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// thumbnail decodes data, downsizes the long side to MaxSide and re-encodes it
func (p *Previewer) thumbnail(data []byte) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("image too large to thumbnail: %dx%d", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim := p.config.MaxSide
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxDim || h > maxDim {
		if w >= h {
			img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(p.config.Format) {
	case "webp":
		opts := &webp.Options{Lossless: p.config.Lossless, Quality: float32(p.config.Quality)}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/webp", nil
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
