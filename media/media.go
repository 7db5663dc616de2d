// Package media resolves image references into request-ready content blocks.
//
// A reference is either a remote URL, passed through untouched, or a local
// file which is read, format-sniffed and inlined as a base64 data URI.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/richinex/chatshot/llm"
	"github.com/richinex/chatshot/model"
)

// Format is an image encoding accepted by the vision endpoint.
type Format string

const (
	FormatAuto Format = "" // detect from file content
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
)

// ParseFormat maps user input such as "jpg" or "PNG" to a Format.
// Unrecognized values select FormatAuto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "webp":
		return FormatWEBP
	default:
		return FormatAuto
	}
}

// Reference is a remote URL or a local path. The zero value is a local path "".
type Reference struct {
	value  string
	remote bool
}

// Parse classifies s: http:// and https:// prefixes are remote, anything
// else is a local path.
func Parse(s string) Reference {
	return Reference{
		value:  s,
		remote: strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"),
	}
}

// IsRemote reports whether the reference is a URL.
func (r Reference) IsRemote() bool {
	return r.remote
}

// String returns the reference as given.
func (r Reference) String() string {
	return r.value
}

// DetectFormat sniffs the image encoding from the leading bytes.
// Anything other than PNG or WEBP is reported as JPEG.
func DetectFormat(data []byte) Format {
	switch http.DetectContentType(data) {
	case "image/png":
		return FormatPNG
	case "image/webp":
		return FormatWEBP
	default:
		return FormatJPEG
	}
}

// Resolve turns a reference into an image content block. A non-auto
// override skips format detection for local files.
func Resolve(ref Reference, override Format) (llm.ContentPart, error) {
	if ref.IsRemote() {
		return llm.ImagePart(ref.String()), nil
	}
	uri, err := DataURI(ref.String(), override)
	if err != nil {
		return llm.ContentPart{}, err
	}
	return llm.ImagePart(uri), nil
}

// ResolveString resolves a remote URL to itself and a local path to its data URI.
func ResolveString(ref Reference, override Format) (string, error) {
	if ref.IsRemote() {
		return ref.String(), nil
	}
	return DataURI(ref.String(), override)
}

// DataURI reads a local image and returns "data:image/<format>;base64,<payload>".
func DataURI(path string, override Format) (string, error) {
	data, format, err := ReadImage(path, override)
	if err != nil {
		return "", err
	}
	return EncodeDataURI(data, format), nil
}

// ReadImage reads a local image and reports its format.
func ReadImage(path string, override Format) ([]byte, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", model.NewOpError("read_image", path, model.ErrMediaNotFound, err)
		}
		return nil, "", model.NewOpError("read_image", path, model.ErrMediaRead, err)
	}

	format := override
	if format == FormatAuto {
		format = DetectFormat(data)
	}
	return data, format, nil
}

// EncodeDataURI base64-encodes image bytes into a data URI.
func EncodeDataURI(data []byte, override Format) string {
	format := override
	if format == FormatAuto {
		format = DetectFormat(data)
	}
	return fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data))
}
