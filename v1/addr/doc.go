// Package addr implements the deterministic address codec that maps a
// (namespace, model id, record id) triple to a fixed-layout point
// identifier and back.
//
// The vector store has no identity scheme tying a business record to a
// stable point address; this codec supplies one. Identifiers are pure
// digit strings so they stay valid numeric point ids for the store.
//
//	id, err := addr.Encode(addr.NamespaceData, 85, 319)
//	// id == "200085000000000319"
//
//	ident, err := addr.Decode(id)
//	// ident == addr.Identity{Namespace: addr.NamespaceData, ModelID: 85, RecordID: 319}
//
// Guarantees: determinism, injectivity within segment capacity, and
// round-trip (Decode(Encode(x)) == x for all valid x). A legacy
// two-segment layout without the namespace code is still decodable for
// points written before namespaces existed, but is never produced.
package addr
