package planner

import (
	"path/filepath"
	"testing"

	"shotdate/internal/media"
	"shotdate/internal/metadata"
)

func record(dt, camera string) metadata.Record {
	return metadata.Record{DateTimeOriginal: dt, NormalizedCamera: camera}
}

func TestDecideRules(t *testing.T) {
	tests := []struct {
		name string
		stem string
		ext  string
		rec  metadata.Record
		want Plan
	}{
		{
			name: "pass with date",
			stem: "2023-01-01_10-00-00_ID_CAM",
			ext:  ".MP4",
			rec:  record("2023:01:01 10:00:00", metadata.CameraEOSR7),
			want: Plan{Action: ActionCopyPass, DestDir: "2023-01-01", DestName: "2023-01-01_10-00-00_ID_CAM.mp4"},
		},
		{
			name: "pass without date",
			stem: "2023-01-01_10-00-00_ID_CAM",
			ext:  ".mp4",
			rec:  record("", metadata.CameraEOSR7),
			want: Plan{Action: ActionSkip, Reason: ReasonNoDatePass, SkipKind: SkipNoDateTime},
		},
		{
			name: "img with date",
			stem: "IMG_1234",
			ext:  ".JPG",
			rec:  record("2023:01:01 10:00:00", metadata.CameraEOSR7),
			want: Plan{Action: ActionCopyRename, DestDir: "2023-01-01", DestName: "2023-01-01_10-00-00_1234_EOSR7.jpg"},
		},
		{
			name: "img with fraction and offset",
			stem: "IMG_5678",
			ext:  ".MOV",
			rec:  record("2024:02:15 14:30:05.123+09:00", metadata.CameraIPhone),
			want: Plan{Action: ActionCopyRename, DestDir: "2024-02-15", DestName: "2024-02-15_14-30-05_5678_iPhone.mov"},
		},
		{
			name: "img with negative offset",
			stem: "IMG_77a",
			ext:  ".heic",
			rec:  record("2024:02:15 14:30:05-05:00", metadata.CameraIPhone),
			want: Plan{Action: ActionCopyRename, DestDir: "2024-02-15", DestName: "2024-02-15_14-30-05_77a_iPhone.heic"},
		},
		{
			name: "not img with date",
			stem: "MyPhoto",
			ext:  ".PNG",
			rec:  record("2023:01:01 10:00:00", metadata.CameraUnknown),
			want: Plan{Action: ActionSkip, Reason: ReasonNotIMG, SkipKind: SkipNotIMG},
		},
		{
			name: "not img without date",
			stem: "MyPhoto",
			ext:  ".png",
			rec:  record("", metadata.CameraUnknown),
			want: Plan{Action: ActionSkip, Reason: ReasonNoDate, SkipKind: SkipNoDateTime},
		},
		{
			name: "img with unparseable date",
			stem: "IMG_1",
			ext:  ".jpg",
			rec:  record("0000:00:00 00:00:00", metadata.CameraUnknown),
			want: Plan{Action: ActionSkip, Reason: ReasonNoDate, SkipKind: SkipNoDateTime},
		},
		{
			name: "img with empty camera",
			stem: "IMG_9",
			ext:  ".jpg",
			rec:  record("2023:01:01 10:00:00", ""),
			want: Plan{Action: ActionCopyRename, DestDir: "2023-01-01", DestName: "2023-01-01_10-00-00_9_UNKNOWN.jpg"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.stem, tc.ext, tc.rec)
			if got != tc.want {
				t.Fatalf("Decide = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecidePartitionInvariant(t *testing.T) {
	stems := []string{"IMG_1", "IMG_ABC", "2023-01-01_10-00-00_1_CAM", "photo", ""}
	dates := []string{"", "2023:01:01 10:00:00", "garbage", "2023:13:01 10:00:00"}
	for _, stem := range stems {
		for _, dt := range dates {
			p := Decide(stem, ".jpg", record(dt, metadata.CameraUnknown))
			switch p.Action {
			case ActionSkip:
				if p.DestDir != "" || p.DestName != "" || p.Reason == "" || p.SkipKind == SkipNone {
					t.Fatalf("malformed skip plan for %q/%q: %+v", stem, dt, p)
				}
			case ActionCopyPass, ActionCopyRename:
				if p.DestDir == "" || p.DestName == "" || p.Reason != "" || p.SkipKind != SkipNone {
					t.Fatalf("malformed copy plan for %q/%q: %+v", stem, dt, p)
				}
			default:
				t.Fatalf("unexpected action %q", p.Action)
			}
		}
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"2023:01:01 10:00:00", "2023-01-01_10-00-00", true},
		{"2023:01:01 10:00:00.55", "2023-01-01_10-00-00", true},
		{"2023:01:01 10:00:00+02:00", "2023-01-01_10-00-00", true},
		{"2023:01:01 10:00:00Z", "2023-01-01_10-00-00", true},
		{" 2023:01:01 10:00:00 ", "2023-01-01_10-00-00", true},
		{"2023-01-01 10:00:00", "", false},
		{"", "", false},
		{"not a date", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseDateTime(tc.raw)
		if ok != tc.wantOK {
			t.Fatalf("ParseDateTime(%q) ok=%v want %v", tc.raw, ok, tc.wantOK)
		}
		if ok && got.Format(stampLayout) != tc.want {
			t.Fatalf("ParseDateTime(%q) = %s want %s", tc.raw, got.Format(stampLayout), tc.want)
		}
	}
}

func TestForFileAndDestPath(t *testing.T) {
	file, ok := media.NewFile("/src/IMG_1234.JPG")
	if !ok {
		t.Fatal("expected supported file")
	}
	p := ForFile(file, record("2023:01:01 10:00:00", metadata.CameraEOSR7))
	if p.Source != "/src/IMG_1234.JPG" {
		t.Fatalf("unexpected source %q", p.Source)
	}
	want := filepath.Join("/src/result", "2023-01-01", "2023-01-01_10-00-00_1234_EOSR7.jpg")
	if got := p.DestPath("/src/result"); got != want {
		t.Fatalf("DestPath = %q want %q", got, want)
	}
}
