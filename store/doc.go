// Package store persists encoded snapshots in two phases: a single
// structured JSON file (obj_data.json) holding the full envelope tree,
// plus sidecar binary files for payloads whose codecs declare themselves
// external (PNG bitmaps, zstd-compressed tilemap cells, GPL palettes).
//
// Store walks the tree depth-first and lets each externalizing codec move
// its heavy payload out before the tree is written; Load is the exact
// inverse, re-inflating sidecar payloads before the tree is decoded.
package store
