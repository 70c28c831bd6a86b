package visuals

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Placeholder image geometry. Matches the server's error asset closely
// enough that reports look consistent without fetching anything.
const (
	placeholderW = 320
	placeholderH = 200
)

// GeneratePlaceholder builds the local stand-in shown when a visualization
// is missing or failed to download: a dark panel with a diagonal cross.
func GeneratePlaceholder() *image.RGBA {
	bg := color.RGBA{R: 0x2b, G: 0x2d, B: 0x31, A: 0xff}
	fg := color.RGBA{R: 0x6c, G: 0x75, B: 0x7d, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, placeholderW, placeholderH))
	for y := 0; y < placeholderH; y++ {
		for x := 0; x < placeholderW; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	// Border.
	for x := 0; x < placeholderW; x++ {
		img.SetRGBA(x, 0, fg)
		img.SetRGBA(x, placeholderH-1, fg)
	}
	for y := 0; y < placeholderH; y++ {
		img.SetRGBA(0, y, fg)
		img.SetRGBA(placeholderW-1, y, fg)
	}

	// Diagonal cross, three pixels thick.
	for x := 0; x < placeholderW; x++ {
		y := x * placeholderH / placeholderW
		for dy := -1; dy <= 1; dy++ {
			if y+dy >= 0 && y+dy < placeholderH {
				img.SetRGBA(x, y+dy, fg)
				img.SetRGBA(x, placeholderH-1-y-dy, fg)
			}
		}
	}
	return img
}

// WritePlaceholder encodes the placeholder as PNG at path.
func WritePlaceholder(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, GeneratePlaceholder())
}
