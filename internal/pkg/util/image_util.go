package util

import (
	"Cipherchat/internal/pkg/consts"
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// AvatarSize 头像统一裁剪为正方形
	AvatarSize = 256
	// MaxImageBytes 单张图片解码后的上限
	MaxImageBytes = 5 << 20
)

var (
	ErrInvalidDataURL = errors.New("invalid data url")
	ErrNotImage       = errors.New("content is not an image")
	ErrImageTooLarge  = errors.New("image too large")
)

// DecodeDataURL 解析 data:<mime>;base64,<payload> 格式的字符串
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", ErrInvalidDataURL
	}
	if !strings.HasPrefix(mime, consts.MimePrefixImage) {
		return nil, "", ErrNotImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidDataURL
	}
	return data, mime, nil
}

// NormalizeAvatar 自动旋转并居中裁剪为 AvatarSize 的 JPEG
func NormalizeAvatar(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrNotImage
	}
	var thumb image.Image = imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err = imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtensionForMime 对象存储文件扩展名
func ExtensionForMime(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
