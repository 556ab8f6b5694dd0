package binder

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dgallion1/qbank/internal/source"
)

// Sink persists image files by name.
type Sink interface {
	Put(name string, data []byte) error
}

// DirSink writes files into Dir, creating it on first write.
type DirSink struct {
	Dir string
}

func (d DirSink) Put(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write image %s: %w", name, err)
	}
	return nil
}

// MemorySink keeps files in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	puts  int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (m *MemorySink) Put(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	m.puts++
	return nil
}

// Files returns the stored names, sorted.
func (m *MemorySink) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Puts counts writes, including overwrites.
func (m *MemorySink) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// AssetStore owns the content hash to filename table of one run. Each
// distinct hash is written to the sink once.
type AssetStore struct {
	sink       Sink
	publicBase string

	byHash   map[string]string // md5 hex -> filename
	byHandle map[int]string    // image handle -> md5 hex
}

// NewAssetStore serves files under publicBase, e.g. "/qbank/2023-test1/images".
func NewAssetStore(sink Sink, publicBase string) *AssetStore {
	return &AssetStore{
		sink:       sink,
		publicBase: publicBase,
		byHash:     make(map[string]string),
		byHandle:   make(map[int]string),
	}
}

// PublicBase builds the public image directory for a dataset slug.
func PublicBase(prefix, slug string) string {
	return path.Join("/", prefix, slug, "images")
}

// Resolve returns the public path and content hash for an image handle,
// storing the bytes on first sight of their hash. ok is false when the
// image has no bytes.
func (s *AssetStore) Resolve(images source.ImageSource, handle int) (src, hash string, ok bool, err error) {
	if h, seen := s.byHandle[handle]; seen {
		return s.src(h), h, true, nil
	}

	img, err := images.Image(handle)
	if err != nil {
		return "", "", false, fmt.Errorf("image %d: %w", handle, err)
	}
	if len(img.Bytes) == 0 {
		return "", "", false, nil
	}

	sum := md5.Sum(img.Bytes)
	h := hex.EncodeToString(sum[:])
	s.byHandle[handle] = h

	if _, stored := s.byHash[h]; !stored {
		name := AssetName(h, extension(img))
		if err := s.sink.Put(name, img.Bytes); err != nil {
			return "", "", false, err
		}
		s.byHash[h] = name
	}
	return s.src(h), h, true, nil
}

var assetNameRe = regexp.MustCompile(`^img_[0-9a-f]{32}\.[a-z0-9]+$`)

// AssetName is the file name of an image with content hash h.
func AssetName(h, ext string) string {
	return fmt.Sprintf("img_%s.%s", h, ext)
}

// IsAssetName reports whether name could have come from AssetName.
func IsAssetName(name string) bool {
	return assetNameRe.MatchString(name)
}

// Len is the number of distinct images stored.
func (s *AssetStore) Len() int { return len(s.byHash) }

func (s *AssetStore) src(hash string) string {
	return path.Join(s.publicBase, s.byHash[hash])
}

// extension uses the provider's format hint, sniffing the bytes when it
// is missing.
func extension(img source.ImageData) string {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(img.Format)), ".")
	if ext == "" {
		if _, format, err := image.DecodeConfig(bytes.NewReader(img.Bytes)); err == nil {
			ext = format
		}
	}
	switch ext {
	case "":
		return "png"
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	}
	return ext
}
