package planner

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shotdate/internal/media"
	"shotdate/internal/metadata"
	"shotdate/internal/patterns"
)

// Action is the decided treatment for one file.
type Action string

const (
	ActionCopyRename Action = "COPY_RENAME"
	ActionCopyPass   Action = "COPY_PASS"
	ActionSkip       Action = "SKIP"
)

// SkipKind identifies which skip counter a SKIP plan belongs to.
type SkipKind int

const (
	SkipNone SkipKind = iota
	SkipNoDateTime
	SkipNotIMG
)

// Skip reasons recorded on SKIP plans.
const (
	ReasonNoDatePass = "no capture date (pass-pattern file)"
	ReasonNoDate     = "no capture date"
	ReasonNotIMG     = "not img pattern"
)

const (
	exifLayout   = "2006:01:02 15:04:05"
	dirLayout    = "2006-01-02"
	stampLayout  = "2006-01-02_15-04-05"
	exifStampLen = len(exifLayout)
)

// Plan is the action and destination chosen for one file. DestDir and
// DestName are set only for copy actions; Reason only for SKIP.
type Plan struct {
	Action   Action
	Source   string
	DestDir  string
	DestName string
	Reason   string
	SkipKind SkipKind
}

// IsSkip reports whether the plan skips the file.
func (p Plan) IsSkip() bool {
	return p.Action == ActionSkip
}

// DestPath joins the plan destination under resultRoot.
func (p Plan) DestPath(resultRoot string) string {
	return filepath.Join(resultRoot, p.DestDir, p.DestName)
}

func (p Plan) String() string {
	if p.IsSkip() {
		return fmt.Sprintf("%s %s (%s)", p.Action, p.Source, p.Reason)
	}
	return fmt.Sprintf("%s %s -> %s", p.Action, p.Source, filepath.Join(p.DestDir, p.DestName))
}

// ForFile plans a discovered media file.
func ForFile(file media.File, rec metadata.Record) Plan {
	plan := Decide(file.Stem(), file.Ext, rec)
	plan.Source = file.Path
	return plan
}

// Decide applies the rename rules to a stem, extension and metadata record.
// It has no side effects and every input maps to exactly one action.
func Decide(stem, ext string, rec metadata.Record) Plan {
	ext = strings.ToLower(ext)
	shot, hasDate := ParseDateTime(rec.DateTimeOriginal)

	if patterns.IsPass(stem) {
		if hasDate {
			return Plan{
				Action:   ActionCopyPass,
				DestDir:  shot.Format(dirLayout),
				DestName: stem + ext,
			}
		}
		return skip(ReasonNoDatePass, SkipNoDateTime)
	}
	if !hasDate {
		return skip(ReasonNoDate, SkipNoDateTime)
	}
	id, ok := patterns.IMGID(stem)
	if !ok {
		return skip(ReasonNotIMG, SkipNotIMG)
	}
	camera := rec.NormalizedCamera
	if camera == "" {
		camera = metadata.CameraUnknown
	}
	return Plan{
		Action:   ActionCopyRename,
		DestDir:  shot.Format(dirLayout),
		DestName: fmt.Sprintf("%s_%s_%s%s", shot.Format(stampLayout), id, camera, ext),
	}
}

func skip(reason string, kind SkipKind) Plan {
	return Plan{Action: ActionSkip, Reason: reason, SkipKind: kind}
}

// ParseDateTime parses an EXIF style timestamp. Fractional seconds and any
// offset suffix (+HH:MM, -HH:MM, Z) are discarded; the wall clock value is
// used as reported. ok is false for empty or malformed input.
func ParseDateTime(raw string) (time.Time, bool) {
	s, _, _ := strings.Cut(raw, ".")
	s, _, _ = strings.Cut(s, "+")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "Z")
	if len(s) > exifStampLen && s[exifStampLen] == '-' {
		s = s[:exifStampLen]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(exifLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
