package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

var ErrDataURL = errors.New("raster: malformed data url")

// DecodeDataURL decodes a canvas capture such as "data:image/png;base64,...".
// A bare base64 payload is accepted too.
func DecodeDataURL(s string) (image.Image, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, ErrDataURL
		}
		if !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, fmt.Errorf("%w: not base64", ErrDataURL)
		}
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURL, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: can't decode image: %w", err)
	}
	return img, nil
}

// EncodeDataURL is the inverse of DecodeDataURL for PNG data.
func EncodeDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
