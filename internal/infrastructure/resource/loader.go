package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"
)

// Decoder turns raw file bytes into an asset.
type Decoder func(data []byte) (any, error)

// FSLoader loads assets from an fs.FS, choosing a decoder by file extension.
type FSLoader struct {
	fsys     fs.FS
	decoders map[string]Decoder
}

// NewFSLoader creates a loader over fsys with the default decoders registered.
func NewFSLoader(fsys fs.FS) *FSLoader {
	l := &FSLoader{
		fsys:     fsys,
		decoders: make(map[string]Decoder),
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"} {
		l.decoders[ext] = DecodeImage
	}
	l.decoders[".ttf"] = DecodeFont
	l.decoders[".otf"] = DecodeFont
	l.decoders[".wav"] = DecodeWAV
	l.decoders[".json"] = DecodeJSON
	return l
}

// Register sets the decoder for ext (for example ".txt").
// It must be called before the loader is shared with a Cache.
func (l *FSLoader) Register(ext string, d Decoder) {
	l.decoders[strings.ToLower(ext)] = d
}

// Load reads key from the filesystem and decodes it.
func (l *FSLoader) Load(ctx context.Context, key string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, IOError(key, err)
	}
	if !fs.ValidPath(key) {
		return nil, NotFoundError(key, fmt.Errorf("invalid path"))
	}

	ext := strings.ToLower(path.Ext(key))
	dec, ok := l.decoders[ext]
	if !ok {
		return nil, DecodeError(key, fmt.Errorf("no decoder for extension %q", ext))
	}

	data, err := fs.ReadFile(l.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFoundError(key, err)
		}
		return nil, IOError(key, err)
	}

	asset, err := dec(data)
	if err != nil {
		return nil, DecodeError(key, err)
	}
	return asset, nil
}

// DecodeImage decodes any registered image format into an *Image.
func DecodeImage(data []byte) (any, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Image{Source: img, Format: format}, nil
}

// DecodeFont parses a TrueType or OpenType font into a *Font.
func DecodeFont(data []byte) (any, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{Font: f}, nil
}

// DecodeWAV decodes a WAV file into a buffered *Sound.
func DecodeWAV(data []byte) (any, error) {
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return &Sound{Format: format, buffer: buf}, nil
}

// DecodeJSON validates a JSON document and returns it as Data.
func DecodeJSON(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return Data(bytes.Clone(data)), nil
}
