package ai

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
)

const (
	placeholderWidth  = 400
	placeholderHeight = 600
)

// PlaceholderGenerator renders a deterministic PNG locally instead of
// calling the generative model. Useful for development and tests: the same
// inputs always yield identical bytes. One horizontal band is drawn per
// reference image, colored from a hash of its URL.
type PlaceholderGenerator struct{}

func NewPlaceholderGenerator() *PlaceholderGenerator {
	return &PlaceholderGenerator{}
}

func (p *PlaceholderGenerator) Generate(_ context.Context, imageURLs []string, _ string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))

	background := color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	for y := 0; y < placeholderHeight; y++ {
		for x := 0; x < placeholderWidth; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	if len(imageURLs) > 0 {
		bandHeight := placeholderHeight / len(imageURLs)
		for i, url := range imageURLs {
			band := bandColor(url)
			top := i * bandHeight
			for y := top; y < top+bandHeight && y < placeholderHeight; y++ {
				for x := placeholderWidth / 4; x < 3*placeholderWidth/4; x++ {
					img.SetRGBA(x, y, band)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func bandColor(url string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	sum := h.Sum32()

	return color.RGBA{
		R: byte(sum),
		G: byte(sum >> 8),
		B: byte(sum >> 16),
		A: 0xff,
	}
}
