package util

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	data, mime, err := DecodeDataURL(pngDataURL(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.NotEmpty(t, data)

	cases := map[string]error{
		"plain text":              ErrInvalidDataURL,
		"data:image/png,abc":      ErrInvalidDataURL,
		"data:text/plain;base64,": ErrNotImage,
		"data:image/png;base64,@": ErrInvalidDataURL,
	}
	for in, want := range cases {
		_, _, err = DecodeDataURL(in)
		assert.ErrorIs(t, err, want, in)
	}
}

func TestNormalizeAvatar(t *testing.T) {
	data, _, err := DecodeDataURL(pngDataURL(t, 600, 300))
	require.NoError(t, err)

	out, err := NormalizeAvatar(data)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())

	_, err = NormalizeAvatar([]byte("not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
}
