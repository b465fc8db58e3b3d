package resource

import (
	"encoding/json"
	"image"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Image is a decoded bitmap. The GPU texture is created on first use.
type Image struct {
	Source image.Image
	Format string

	mu       sync.Mutex
	tex      *ebiten.Image
	disposed bool
}

// Bounds returns the image bounds.
func (i *Image) Bounds() image.Rectangle {
	return i.Source.Bounds()
}

// Texture returns the ebiten image backing this asset, uploading it on the
// first call. It returns nil once the asset has been disposed.
func (i *Image) Texture() *ebiten.Image {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.tex == nil && !i.disposed {
		i.tex = ebiten.NewImageFromImage(i.Source)
	}
	return i.tex
}

// Dispose frees the texture if one was created.
func (i *Image) Dispose() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.tex != nil {
		i.tex.Deallocate()
		i.tex = nil
	}
	i.disposed = true
}

// Font is a parsed OpenType/TrueType font.
type Font struct {
	Font *opentype.Font
}

// Face creates a face of the given size in points at 72 DPI.
func (f *Font) Face(size float64) (font.Face, error) {
	return opentype.NewFace(f.Font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Sound is a fully decoded PCM sample buffer.
type Sound struct {
	Format beep.Format
	buffer *beep.Buffer
}

// Len returns the number of samples.
func (s *Sound) Len() int {
	return s.buffer.Len()
}

// Duration returns the playing time of the sound.
func (s *Sound) Duration() time.Duration {
	return s.Format.SampleRate.D(s.buffer.Len())
}

// Streamer returns a new streamer over the whole buffer.
// Each call returns an independent cursor.
func (s *Sound) Streamer() beep.StreamSeeker {
	return s.buffer.Streamer(0, s.buffer.Len())
}

// Data is a validated JSON document.
type Data []byte

// Decode unmarshals the document into v.
func (d Data) Decode(v any) error {
	return json.Unmarshal(d, v)
}
