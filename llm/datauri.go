package llm

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"strings"
)

// splitDataURI splits "data:<mime>;base64,<payload>" into its mime type and
// base64 payload. ok is false for anything that is not a base64 data URI.
func splitDataURI(uri string) (mimeType, payload string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}
	header, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mimeType, found = strings.CutSuffix(header, ";base64")
	if !found || mimeType == "" {
		return "", "", false
	}
	return mimeType, payload, true
}

// decodeDataURI returns the mime type and raw bytes carried by a data URI.
func decodeDataURI(uri string) (string, []byte, error) {
	mimeType, payload, ok := splitDataURI(uri)
	if !ok {
		return "", nil, fmt.Errorf("not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mimeType, data, nil
}

// guessImageMIME guesses an image mime type from a URL path, defaulting to JPEG.
func guessImageMIME(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(url))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
