package blobstore

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"catalog-service/internal/domain"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/(\w+);base64,`)

// Image is a decoded inline image payload.
type Image struct {
	Subtype string
	Data    []byte
}

// ContentType is the MIME type the object is stored with.
func (i Image) ContentType() string {
	return "image/" + i.Subtype
}

// ParsePayload decodes a `data:image/<subtype>;base64,<body>` string.
// Payloads without the prefix are rejected since the subtype cannot be derived.
func ParsePayload(payload string) (Image, error) {
	payload = strings.TrimSpace(payload)
	m := dataURIPrefix.FindStringSubmatch(payload)
	if m == nil {
		return Image{}, fmt.Errorf("%w: missing data:image/<subtype>;base64, prefix", domain.ErrMalformedPayload)
	}
	body := payload[len(m[0]):]
	if body == "" {
		return Image{}, fmt.Errorf("%w: empty image body", domain.ErrMalformedPayload)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// Some clients strip the padding.
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
		if rawErr != nil {
			return Image{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image body", domain.ErrMalformedPayload)
	}

	return Image{Subtype: strings.ToLower(m[1]), Data: data}, nil
}
