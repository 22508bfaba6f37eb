// Package barcode renders task codes as Code 128 barcodes with a printed
// caption, encoded as PNG data URIs for the receipt renderer.
package barcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	// DefaultScale is the pixel width of the narrowest bar
	DefaultScale = 3
	// DefaultBarHeight is the bar height in pixels
	DefaultBarHeight = 60

	captionSize    = 14
	captionPadding = 6
	quietZone      = 10

	dataURIPrefix = "data:image/png;base64,"
)

// Options controls barcode geometry
type Options struct {
	Scale     int
	BarHeight int
	Caption   bool
}

// DefaultOptions matches the receipt printer layout
func DefaultOptions() Options {
	return Options{Scale: DefaultScale, BarHeight: DefaultBarHeight, Caption: true}
}

// Encode renders text as a Code 128 PNG
func Encode(text string, opts Options) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("barcode: empty text")
	}
	if opts.Scale < 1 {
		opts.Scale = DefaultScale
	}
	if opts.BarHeight < 1 {
		opts.BarHeight = DefaultBarHeight
	}

	code, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("barcode: encoding %q: %w", text, err)
	}

	bars, err := barcode.Scale(code, code.Bounds().Dx()*opts.Scale, opts.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("barcode: scaling: %w", err)
	}

	width := bars.Bounds().Dx() + 2*quietZone
	height := opts.BarHeight + 2*quietZone
	var face font.Face
	if opts.Caption {
		face, err = captionFace()
		if err != nil {
			return nil, err
		}
		height += captionSize + captionPadding
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(bars, quietZone, quietZone)

	if face != nil {
		dc.SetFontFace(face)
		dc.SetRGB(0, 0, 0)
		y := float64(quietZone + opts.BarHeight + captionPadding)
		dc.DrawStringAnchored(text, float64(width)/2, y, 0.5, 1)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("barcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes in a data URI
func DataURI(pngBytes []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes)
}

// Generate returns a data URI for text, or nil if it cannot be encoded.
// Failures are logged and never returned.
func Generate(text string) *string {
	pngBytes, err := Encode(text, DefaultOptions())
	if err != nil {
		logrus.WithError(err).WithField("text", text).Warn("barcode generation failed")
		return nil
	}
	uri := DataURI(pngBytes)
	return &uri
}

func captionFace() (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("barcode: parsing caption font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: captionSize}), nil
}
