package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	_ "image/gif"
	_ "image/png"
)

// CaptureQuality matches the compression applied when a live frame is
// sampled into a still.
const CaptureQuality = 80

var ErrCameraClosed = fmt.Errorf("camera stream is closed")

// Stream is a live frame source. Implementations own the underlying device
// tracks and must release them on Close.
type Stream interface {
	ReadFrame() (image.Image, error)
	Close() error
	ActiveTracks() int
}

// Camera wraps an acquired stream for single-still capture. Every exit path
// (capture, cancel, dismiss) releases the stream exactly once.
type Camera struct {
	mu     sync.Mutex
	stream Stream
	closed bool
}

// Open acquires a camera around an already-opened stream. Acquisition
// failures (permission denied, no hardware) happen in the stream source and
// are non-fatal to the caller, which can fall back to the file origin.
func Open(stream Stream) *Camera {
	return &Camera{stream: stream}
}

// Capture samples the current frame, encodes it as JPEG at CaptureQuality
// and releases the stream.
func (c *Camera) Capture() (*Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCameraClosed
	}

	frame, err := c.stream.ReadFrame()
	if err != nil {
		c.releaseLocked()
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: CaptureQuality}); err != nil {
		c.releaseLocked()
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	c.releaseLocked()
	return &Payload{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}

// Cancel releases the stream without producing a payload.
func (c *Camera) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

// Dismiss releases the stream when the enclosing flow is torn down. It is
// safe to call after Capture or Cancel.
func (c *Camera) Dismiss() {
	c.Cancel()
}

// ActiveTracks reports the number of device tracks still held.
func (c *Camera) ActiveTracks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	return c.stream.ActiveTracks()
}

func (c *Camera) releaseLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.stream.Close()
}

// FrameStream adapts a single decoded frame into a Stream. The HTTP layer
// uses it for camera-origin captures where the device stream lives on the
// client and only the sampled frame reaches the server.
type FrameStream struct {
	frame  image.Image
	tracks int
}

func NewFrameStream(data []byte) (*FrameStream, error) {
	frame, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &FrameStream{frame: frame, tracks: 1}, nil
}

func (s *FrameStream) ReadFrame() (image.Image, error) {
	if s.tracks == 0 {
		return nil, ErrCameraClosed
	}
	return s.frame, nil
}

func (s *FrameStream) Close() error {
	s.tracks = 0
	return nil
}

func (s *FrameStream) ActiveTracks() int {
	return s.tracks
}
