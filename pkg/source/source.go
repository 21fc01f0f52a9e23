// Package source provides the file abstraction consumed by the
// validator and the ingestion dispatcher: a name, a byte size, and
// access to the full content. Gzip-compressed files are decompressed
// transparently.
package source

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is a generic file descriptor. Implementations must return the
// original file name (with extension) from Name and the raw on-disk
// byte size from Size; Content returns the full decompressed content.
type File interface {
	Name() string
	Size() int64
	Content() ([]byte, error)
}

// PathFile is a File backed by a path on disk.
type PathFile struct {
	path string
	size int64
}

// Open stats path and returns a PathFile.
func Open(path string) (*PathFile, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &PathFile{path: path, size: stat.Size()}, nil
}

// Name returns the base file name.
func (f *PathFile) Name() string {
	return filepath.Base(f.path)
}

// Size returns the on-disk byte size.
func (f *PathFile) Size() int64 {
	return f.size
}

// Content reads the full file, decompressing gzip transparently.
func (f *PathFile) Content() ([]byte, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if IsGzip(f.path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}

	return io.ReadAll(file)
}

// BytesFile is an in-memory File, used for uploads already held in a
// buffer and throughout the tests.
type BytesFile struct {
	name string
	data []byte
}

// NewBytesFile wraps an in-memory buffer as a File.
func NewBytesFile(name string, data []byte) *BytesFile {
	return &BytesFile{name: name, data: data}
}

// Name returns the file name.
func (f *BytesFile) Name() string {
	return f.name
}

// Size returns the buffer length.
func (f *BytesFile) Size() int64 {
	return int64(len(f.data))
}

// Content returns the buffer, decompressing gzip content transparently.
func (f *BytesFile) Content() ([]byte, error) {
	if IsGzip(f.name) {
		gz, err := gzip.NewReader(bytes.NewReader(f.data))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return f.data, nil
}

// IsGzip returns true if the file name indicates gzip compression.
func IsGzip(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".gz")
}

// StripCompression removes a trailing .gz from a file name.
func StripCompression(name string) string {
	if IsGzip(name) {
		return name[:len(name)-3]
	}
	return name
}

// Ext extracts the lowercase format extension without the leading
// dot, after stripping compression. "data.CSV.gz" -> "csv".
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(StripCompression(name)))
	return strings.TrimPrefix(ext, ".")
}
