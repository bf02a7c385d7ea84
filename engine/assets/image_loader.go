package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AssetLoadError is returned when an image is missing or cannot be decoded.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string { return fmt.Sprintf("load asset %q: %v", e.Path, e.Err) }
func (e *AssetLoadError) Unwrap() error { return e.Err }

var errEmptyImage = errors.New("image has no pixels")

// Image is tightly packed RGBA8 (stride == 4*Width).
// Rows are stored bottom to top: Pix[0:4*Width] is the bottom row of the
// picture, matching OpenGL's texture origin, so v=0 is the bottom edge.
type Image struct {
	Width, Height int
	Pix           []byte
}

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file and flips it vertically.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	if img.Bounds().Empty() {
		return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("decode %s: %w", format, errEmptyImage)}
	}
	return FromImage(img), nil
}

// ImageSize reads only the header of an image file.
func ImageSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, &AssetLoadError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, &AssetLoadError{Path: path, Err: fmt.Errorf("decode config: %w", err)}
	}
	return cfg.Width, cfg.Height, nil
}

// FromImage converts img to a bottom-up RGBA8 Image.
func FromImage(img image.Image) *Image {
	// Ensure RGBA
	rgbaImg := imageToRGBA(img)
	w, h := rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// Repack in tight rows (stride == 4*w), last source row first
	out := make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		sy := h - 1 - y
		copy(out[y*w*4:(y+1)*w*4], src[sy*srcStride:sy*srcStride+w*4])
	}

	return &Image{Width: w, Height: h, Pix: out}
}

// RGBA returns the pixel at (x,y) with y counted from the bottom row.
func (m *Image) RGBA(x, y int) [4]byte {
	i := (y*m.Width + x) * 4
	return [4]byte{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
