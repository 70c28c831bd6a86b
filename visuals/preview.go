package visuals

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// previewMaxWidth bounds the terminal preview in character cells.
const previewMaxWidth = 64

// Preview renders an image file as ANSI half-block art, two pixel rows per
// text row. Returns the rendered string ready to print.
func Preview(path string, width int) (string, error) {
	if width <= 0 || width > previewMaxWidth {
		width = previewMaxWidth
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("empty image %s", path)
	}

	// Terminal cells are roughly twice as tall as wide; half blocks give
	// two rows of pixels per cell, so scale height by width/aspect directly.
	height := bounds.Dy() * width / bounds.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 != 0 {
		height++
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			tr, tg, tb, _ := scaled.At(x, y).RGBA()
			br, bg, bb, _ := scaled.At(x, y+1).RGBA()
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				tr>>8, tg>>8, tb>>8, br>>8, bg>>8, bb>>8)
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String(), nil
}
