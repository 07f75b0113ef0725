// Package sprite implements the in-memory layered sprite document that
// spritevault snapshots and reconstructs.
//
// The model mirrors the capability set of a sprite editor's scripting API:
//   - ordered collections for frames, layers (recursive), cels, tags,
//     slices, tilesets and tiles
//   - append-only factories (frames append at the end, layers append to
//     the root stack, tiles append to their tileset)
//   - a mutable parent relation for moving layers into groups
//   - namespaced key/value property bags on every entity
//   - bitmap and palette objects with save/load by path
//
// Creation is append-only on purpose: the serialization engine recreates
// structure by appending and then re-parenting, never by inserting "at" an
// arbitrary position.
package sprite
