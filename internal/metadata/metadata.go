package metadata

import (
	"strings"

	"golang.org/x/text/cases"

	"shotdate/internal/media"
)

// Tag names requested from the extractor.
const (
	TagDateTimeOriginal = "DateTimeOriginal"
	TagCreateDate       = "CreateDate"
	TagMediaCreateDate  = "MediaCreateDate"
	TagTrackCreateDate  = "TrackCreateDate"
	TagMake             = "Make"
	TagModel            = "Model"
)

// Camera tokens produced by NormalizeCamera.
const (
	CameraEOSR7    = "EOSR7"
	CameraEOS200D2 = "EOS200D2"
	CameraIPhone   = "iPhone"
	CameraUnknown  = "UNKNOWN"
)

// Tags is the raw key to value map reported for one file.
type Tags map[string]string

// RequestedTags lists every tag the normalizer can consume.
var RequestedTags = []string{
	TagDateTimeOriginal,
	TagCreateDate,
	TagMediaCreateDate,
	TagTrackCreateDate,
	TagMake,
	TagModel,
}

var (
	imageDatePriority = []string{TagDateTimeOriginal, TagCreateDate, TagMediaCreateDate}
	videoDatePriority = []string{TagMediaCreateDate, TagCreateDate, TagTrackCreateDate}
)

// Record is the normalized capture metadata for one file.
type Record struct {
	// DateTimeOriginal is the raw capture timestamp; empty means absent.
	DateTimeOriginal string
	// DateTag names the tag that supplied DateTimeOriginal.
	DateTag          string
	CameraMake       string
	CameraModel      string
	NormalizedCamera string
}

// HasDateTime reports whether a capture timestamp was found.
func (r Record) HasDateTime() bool {
	return r.DateTimeOriginal != ""
}

// Normalize builds a Record from raw tags using the date priority of kind.
func Normalize(kind media.Kind, tags Tags) Record {
	rec := Record{
		CameraMake:  strings.TrimSpace(tags[TagMake]),
		CameraModel: strings.TrimSpace(tags[TagModel]),
	}
	rec.DateTag, rec.DateTimeOriginal = pickDate(DatePriority(kind), tags)
	rec.NormalizedCamera = NormalizeCamera(rec.CameraMake, rec.CameraModel)
	return rec
}

// DatePriority returns the ordered date tags consulted for kind. Unknown kinds
// use the image order.
func DatePriority(kind media.Kind) []string {
	if kind == media.KindVideo {
		return videoDatePriority
	}
	return imageDatePriority
}

func pickDate(priority []string, tags Tags) (string, string) {
	for _, tag := range priority {
		if value := strings.TrimSpace(tags[tag]); value != "" {
			return tag, value
		}
	}
	return "", ""
}

type cameraRule struct {
	make   string
	models []string
	token  string
}

// Evaluated in order; first match wins.
var cameraRules = []cameraRule{
	{make: "canon", models: []string{"eos r7"}, token: CameraEOSR7},
	{make: "canon", models: []string{"eos 200d ii", "eos 200d2", "eos kiss x10i"}, token: CameraEOS200D2},
	{make: "apple", models: []string{"iphone"}, token: CameraIPhone},
}

// NormalizeCamera maps make and model to a fixed camera token. Matching is a
// case-insensitive substring test; the result is never empty.
func NormalizeCamera(cameraMake, cameraModel string) string {
	fold := cases.Fold()
	foldedMake := fold.String(cameraMake)
	foldedModel := fold.String(cameraModel)
	for _, rule := range cameraRules {
		if !strings.Contains(foldedMake, rule.make) {
			continue
		}
		for _, m := range rule.models {
			if strings.Contains(foldedModel, m) {
				return rule.token
			}
		}
	}
	return CameraUnknown
}
