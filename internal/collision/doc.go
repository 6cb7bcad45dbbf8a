// Package collision derives collision free destination paths.
//
// Names are mutated without separators: a canonical
// date_time_id_camera stem grows its id (9672, 96721, 96722, ...) and any
// other stem increments or gains a numeric suffix (photo, photo1, photo2).
// Every step strictly increases the numeric suffix, so resolution always
// terminates. A destination that already holds an equivalent copy of the
// source is reported instead of renamed, which keeps re-runs idempotent.
package collision
