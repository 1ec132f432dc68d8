package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	assert.NoError(t, err)

	files := form.File["image"]
	assert.Len(t, files, 1)
	return files[0]
}

func testFrame(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFromFile_AcceptsImage(t *testing.T) {
	fh := makeFileHeader(t, "photo.png", "image/png", testFrame(t))

	payload, err := FromFile(fh)

	assert.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Equal(t, "image/png", payload.ContentType)
	assert.NotEmpty(t, payload.Data)
}

func TestFromFile_RejectsNonImage(t *testing.T) {
	fh := makeFileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4"))

	payload, err := FromFile(fh)

	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, payload)
}

func TestFromFile_RejectsMissingContentType(t *testing.T) {
	fh := makeFileHeader(t, "mystery", "", []byte("data"))

	_, err := FromFile(fh)

	assert.ErrorIs(t, err, ErrNotImage)
}

func TestPayload_Preview(t *testing.T) {
	payload := &Payload{Data: []byte{1, 2, 3}, ContentType: "image/jpeg"}

	assert.True(t, strings.HasPrefix(payload.Preview(), "data:image/jpeg;base64,"))
}

func TestCamera_CaptureReleasesStream(t *testing.T) {
	stream, err := NewFrameStream(testFrame(t))
	assert.NoError(t, err)

	camera := Open(stream)
	payload, err := camera.Capture()

	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", payload.ContentType)
	assert.NotEmpty(t, payload.Data)
	assert.Equal(t, 0, camera.ActiveTracks())
	assert.Equal(t, 0, stream.ActiveTracks())
}

func TestCamera_CancelReleasesStream(t *testing.T) {
	stream, err := NewFrameStream(testFrame(t))
	assert.NoError(t, err)

	camera := Open(stream)
	camera.Cancel()

	assert.Equal(t, 0, camera.ActiveTracks())
	assert.Equal(t, 0, stream.ActiveTracks())
}

func TestCamera_DismissReleasesStream(t *testing.T) {
	stream, err := NewFrameStream(testFrame(t))
	assert.NoError(t, err)

	camera := Open(stream)
	camera.Dismiss()

	assert.Equal(t, 0, camera.ActiveTracks())
	assert.Equal(t, 0, stream.ActiveTracks())
}

func TestCamera_CaptureAfterCancel(t *testing.T) {
	stream, err := NewFrameStream(testFrame(t))
	assert.NoError(t, err)

	camera := Open(stream)
	camera.Cancel()

	_, err = camera.Capture()
	assert.ErrorIs(t, err, ErrCameraClosed)
}

func TestCamera_DismissAfterCaptureIsSafe(t *testing.T) {
	stream, err := NewFrameStream(testFrame(t))
	assert.NoError(t, err)

	camera := Open(stream)
	_, err = camera.Capture()
	assert.NoError(t, err)

	// Flow teardown after a successful capture must not panic or
	// double-release.
	camera.Dismiss()
	assert.Equal(t, 0, camera.ActiveTracks())
}

func TestNewFrameStream_RejectsGarbage(t *testing.T) {
	_, err := NewFrameStream([]byte("not an image"))
	assert.Error(t, err)
}
