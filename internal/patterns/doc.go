// Package patterns classifies filename stems.
//
// Two grammars are recognised: the camera default IMG_<id> shape and the
// canonical date_time_id_camera shape this tool writes. Both are hand-written
// matchers rather than regular expressions so the digit and letter bounds are
// explicit and directly testable.
package patterns
