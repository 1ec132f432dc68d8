package capture

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

var ErrNotImage = fmt.Errorf("selected file is not an image")

// Payload is the capture output contract: exactly one in-memory image plus
// a renderable preview handle.
type Payload struct {
	Data        []byte
	ContentType string
}

// Preview returns a data URI the caller can render without another fetch.
func (p *Payload) Preview() string {
	return fmt.Sprintf("data:%s;base64,%s", p.ContentType, base64.StdEncoding.EncodeToString(p.Data))
}

// FromFile builds a payload from a user-selected file. Files whose declared
// type is not an image type are rejected; there is no client-side size cap.
func FromFile(fh *multipart.FileHeader) (*Payload, error) {
	contentType := fh.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &Payload{Data: data, ContentType: mediaType}, nil
}
