// Package snap is the generic object-graph serialization engine behind
// spritevault.
//
// The engine is built from a few small parts:
//   - Node: a dynamic value model for encoded data (scalars, lists,
//     ordered maps, tagged envelopes, references)
//   - Registry: a process-wide map from type tags to codecs, with a
//     deterministic predicate scan for untagged dispatch
//   - Serialize / Deserialize: the generic dispatcher that wraps values in
//     {tag, data} envelopes and unwraps them again
//   - ResourceTable: per-pass deduplication of heavyweight shared payloads
//     (images), threaded through every nested call
//   - per-type codecs, from plain field-copy codecs (point, frame, tag)
//     to recursive tree codecs (group, tilemap) and the document assembler
//
// Every pass is single-threaded and synchronous: a serialize, deserialize,
// store or load operation runs to completion or aborts with an error. The
// round-trip law is that decoding an encoded value reconstructs a value
// equal on every field its codec declares; object identity is not
// preserved, except that resources deduplicated through the table decode
// to one shared instance.
package snap
