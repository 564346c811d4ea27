package service

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var errMalformedDataURL = errors.New("malformed data url")

func encodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeDataURL returns the payload of a data: URL
func decodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errMalformedDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errMalformedDataURL
	}

	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Join(errMalformedDataURL, err)
		}
		return data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Join(errMalformedDataURL, err)
	}
	return []byte(text), nil
}
