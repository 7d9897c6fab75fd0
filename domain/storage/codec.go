package storage

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedExtension is returned for file extensions with no encoder.
var ErrUnsupportedExtension = errors.New("storage: unsupported image extension")

// Codec encodes and decodes one image file format.
type Codec struct {
	Ext    string
	Encode func(io.Writer, image.Image) error
	Decode func(io.Reader) (image.Image, error)
}

var codecs = map[string]Codec{
	"png": {
		Ext: "png",
		Encode: func(w io.Writer, img image.Image) error {
			enc := png.Encoder{CompressionLevel: png.BestSpeed}
			return enc.Encode(w, img)
		},
		Decode: png.Decode,
	},
	"bmp": {Ext: "bmp", Encode: bmp.Encode, Decode: bmp.Decode},
	"tiff": {
		Ext: "tiff",
		Encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		},
		Decode: tiff.Decode,
	},
}

// Extensions lists the supported save formats.
func Extensions() []string { return []string{"png", "bmp", "tiff"} }

// CodecFor returns the codec for ext ("png", ".PNG", "tif" …).
func CodecFor(ext string) (Codec, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "tif" {
		ext = "tiff"
	}
	c, ok := codecs[ext]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return c, nil
}

// WriteImage encodes img to path using the codec chosen by the path's
// extension. The file is written under a temporary name and renamed into
// place, so path either holds the complete image or is left untouched.
func WriteImage(path string, img image.Image) error {
	tmp, err := writeTemp(path, img)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: rename %s: %w", path, err)
	}
	return nil
}

// writeTemp encodes img next to path and returns the temporary file name.
func writeTemp(path string, img image.Image) (string, error) {
	codec, err := CodecFor(filepath.Ext(path))
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("storage: create temp for %s: %w", path, err)
	}
	tmp := f.Name()
	if err := codec.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("storage: encode %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("storage: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storage: close %s: %w", path, err)
	}
	return tmp, nil
}

// ReadImage decodes the image stored at path.
func ReadImage(path string) (image.Image, error) {
	codec, err := CodecFor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", path, err)
	}
	return img, nil
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", path, err)
	}
	return nil
}
