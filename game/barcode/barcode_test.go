package barcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReturnsPNGDataURI(t *testing.T) {
	uri := Generate("A1B2C3D4")
	require.NotNil(t, uri)
	require.True(t, strings.HasPrefix(*uri, dataURIPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(*uri, dataURIPrefix))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 2*quietZone)
	assert.Equal(t, DefaultBarHeight+2*quietZone+captionSize+captionPadding, img.Bounds().Dy())
}

func TestGenerateFailureIsNil(t *testing.T) {
	assert.Nil(t, Generate(""))
	// code128 cannot encode runes outside Latin-1
	assert.Nil(t, Generate("☃"))
}

func TestEncodeWithoutCaption(t *testing.T) {
	raw, err := Encode("TASK", Options{Scale: 2, BarHeight: 20})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 20+2*quietZone, img.Bounds().Dy())
}

func TestScaleWidensImage(t *testing.T) {
	small, err := Encode("TASK", Options{Scale: 1, BarHeight: 20})
	require.NoError(t, err)
	large, err := Encode("TASK", Options{Scale: 3, BarHeight: 20})
	require.NoError(t, err)

	a, err := png.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	b, err := png.Decode(bytes.NewReader(large))
	require.NoError(t, err)
	assert.Greater(t, b.Bounds().Dx(), a.Bounds().Dx())
}
