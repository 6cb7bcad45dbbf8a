// Package media defines the MediaFile model and the fixed set of photo and
// video extensions the pipeline accepts.
package media
