package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a media file by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
	".cr3":  {},
	".dng":  {},
	".gif":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
}

// File is a discovered media file. Path is absolute; Ext is lowercase with the
// leading dot.
type File struct {
	Path string
	Ext  string
	Kind Kind
}

// Stem returns the base name without its extension.
func (f File) Stem() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewFile builds a File for path. ok is false when the extension is not
// supported.
func NewFile(path string) (File, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	kind := KindOf(ext)
	if kind == KindUnknown {
		return File{}, false
	}
	return File{Path: path, Ext: ext, Kind: kind}, true
}

// KindOf reports the media kind for a lowercase or mixed-case extension.
func KindOf(ext string) Kind {
	ext = strings.ToLower(ext)
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	return KindUnknown
}

// IsSupported reports whether ext belongs to the supported set.
func IsSupported(ext string) bool {
	return KindOf(ext) != KindUnknown
}

// SupportedExtensions lists every supported extension in sorted order.
func SupportedExtensions() []string {
	out := make([]string, 0, len(imageExtensions)+len(videoExtensions))
	for ext := range imageExtensions {
		out = append(out, ext)
	}
	for ext := range videoExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
