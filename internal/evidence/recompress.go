package evidence

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
)

const defaultJPEGQuality = 70

// Recompress re-encodes a decodable JPEG or PNG as JPEG at the given quality. The
// original bytes are kept when they cannot be decoded or the re-encoding is not smaller.
func Recompress(data []byte, quality int) ([]byte, string) {
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	original := http.DetectContentType(data)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, original
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return data, original
	}
	if buf.Len() >= len(data) {
		return data, original
	}
	return buf.Bytes(), "image/jpeg"
}
