package orient

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// RotateImageFile rotates the PNG at path clockwise by the given degrees
// (90, 180, or 270) and rewrites it in place. Zero is a no-op.
func RotateImageFile(path string, degrees int) error {
	if degrees == 0 {
		return nil
	}

	if degrees != 90 && degrees != 180 && degrees != 270 {
		return fmt.Errorf("%w: %d", ErrInvalidRotation, degrees)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	src, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	rotated := Rotate(src, degrees)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite image: %w", err)
	}

	if err := png.Encode(out, rotated); err != nil {
		out.Close()
		return fmt.Errorf("encode image: %w", err)
	}

	return out.Close()
}

// Rotate returns src rotated clockwise by 90, 180, or 270 degrees.
// Right-angle rotation is a pure pixel permutation, so no resampling occurs.
func Rotate(src image.Image, degrees int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var dst *image.RGBA
	switch degrees {
	case 90, 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	default:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch degrees {
			case 90:
				dst.Set(h-1-y, x, c)
			case 180:
				dst.Set(w-1-x, h-1-y, c)
			case 270:
				dst.Set(y, w-1-x, c)
			}
		}
	}

	return dst
}
