package media

import "testing"

func TestNewFileClassifiesByExtension(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
		kind Kind
		ext  string
	}{
		{"/a/IMG_1.JPG", true, KindImage, ".jpg"},
		{"/a/IMG_1.jpeg", true, KindImage, ".jpeg"},
		{"/a/raw.CR3", true, KindImage, ".cr3"},
		{"/a/shot.HEIC", true, KindImage, ".heic"},
		{"/a/clip.MOV", true, KindVideo, ".mov"},
		{"/a/clip.mp4", true, KindVideo, ".mp4"},
		{"/a/notes.txt", false, KindUnknown, ""},
		{"/a/noext", false, KindUnknown, ""},
	}
	for _, tc := range tests {
		f, ok := NewFile(tc.path)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v want %v", tc.path, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if f.Kind != tc.kind || f.Ext != tc.ext || f.Path != tc.path {
			t.Fatalf("%s: got %+v", tc.path, f)
		}
	}
}

func TestStemDropsExtension(t *testing.T) {
	f, ok := NewFile("/photos/2023/IMG_1234.JPG")
	if !ok {
		t.Fatal("expected supported file")
	}
	if got := f.Stem(); got != "IMG_1234" {
		t.Fatalf("unexpected stem %q", got)
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != 9 {
		t.Fatalf("expected 9 extensions, got %v", exts)
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Fatalf("extensions not sorted: %v", exts)
		}
	}
}
