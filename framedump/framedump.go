// Package framedump writes frame buffers out as PNG images, for
// running without a window.
package framedump

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Image copies a flat w x h frame buffer into an image.
func Image(px []color.RGBA, w, h int) (*image.RGBA, error) {
	if len(px) != w*h {
		return nil, fmt.Errorf("frame buffer holds %d pixels, wanted %dx%d", len(px), w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, c := range px {
		img.SetRGBA(i%w, i/w, c)
	}

	return img, nil
}

// WritePNG encodes img to w, enlarged scale times with nearest
// neighbour sampling so pixels stay sharp.
func WritePNG(w io.Writer, img image.Image, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid scale %d", scale)
	}

	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	return png.Encode(w, img)
}

// WriteFile is WritePNG to a new file at path.
func WriteFile(path string, img image.Image, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WritePNG(f, img, scale); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
