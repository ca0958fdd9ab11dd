package catalog

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"strings"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"
)

// MaxImageSize is the largest image accepted by any form.
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrImageTooLarge = errors.New("the image must not exceed 5MB")
	ErrNotImage      = errors.New("the file must be an image")
)

// EncodeUpload reads an uploaded file and returns it as a data URL.
func EncodeUpload(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer f.Close()
	return EncodeImage(f)
}

// EncodeImage sniffs the content type and embeds r as a base64 data URL.
// The declared content type of the upload is ignored.
func EncodeImage(r io.Reader) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	if len(buf) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	if !filetype.IsImage(buf) {
		return "", ErrNotImage
	}
	kind, err := filetype.Match(buf)
	if err != nil {
		return "", errors.Wrap(err, "detect image type")
	}
	return "data:" + kind.MIME.Value + ";base64," + base64.StdEncoding.EncodeToString(buf), nil
}

// KeepImage returns an existing image reference if it is an embedded image
// or an http(s) URL, and "" otherwise.
func KeepImage(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasPrefix(v, "data:image/"),
		strings.HasPrefix(v, "http://"),
		strings.HasPrefix(v, "https://"):
		return v
	}
	return ""
}
