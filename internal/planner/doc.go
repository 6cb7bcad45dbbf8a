// Package planner decides, for each file, whether to copy it under a new
// canonical name, copy it unchanged, or skip it.
//
// Decisions are pure functions of the filename stem, extension and normalized
// metadata. Rules are evaluated in order and the first match wins:
//
//  1. canonical stem with a capture date: copy unchanged
//  2. canonical stem without a capture date: skip
//  3. no capture date: skip
//  4. not an IMG_<id> stem: skip
//  5. otherwise: copy as {date}_{time}_{id}_{camera}{ext}
//
// Unparseable timestamps count as missing. Timezone offsets are dropped, not
// applied.
package planner
