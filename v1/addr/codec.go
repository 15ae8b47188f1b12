package addr

import (
	"strconv"
	"strings"
)

// Namespace is the coarse category of a stored point.
type Namespace int

const (
	// NamespaceSchema holds model/field metadata points.
	NamespaceSchema Namespace = iota
	// NamespaceData holds business record points.
	NamespaceData
	// NamespaceEdge holds discovered FK relation points.
	NamespaceEdge
)

// Fixed-width segment layout of an encoded identifier.
//
// An id is a pure digit string of nsWidth+modelWidth+recordWidth characters:
// namespace code, model id, record id, each zero-padded. The total width of
// 18 digits keeps every id below 2^63, so encoded ids double as numeric
// point ids in the vector store.
const (
	nsWidth     = 2
	modelWidth  = 4
	recordWidth = 12

	// TotalWidth is the length of a namespaced identifier.
	TotalWidth = nsWidth + modelWidth + recordWidth

	// LegacyWidth is the length of the pre-namespace identifier format
	// (model id + record id only). Still decodable, never produced.
	LegacyWidth = modelWidth + recordWidth

	// MaxModelID is the largest model id the model segment can hold.
	MaxModelID = 9999

	// MaxRecordID is the largest record id the record segment can hold.
	MaxRecordID = 999999999999
)

// Namespace segment codes. Two digits so the layout stays fixed-width and
// new namespaces can be added without re-encoding existing points.
const (
	schemaCode = 10
	dataCode   = 20
	edgeCode   = 30
)

func (n Namespace) String() string {
	switch n {
	case NamespaceSchema:
		return "schema-metadata"
	case NamespaceData:
		return "data-record"
	case NamespaceEdge:
		return "graph-edge"
	default:
		return "unknown"
	}
}

func (n Namespace) code() (int, bool) {
	switch n {
	case NamespaceSchema:
		return schemaCode, true
	case NamespaceData:
		return dataCode, true
	case NamespaceEdge:
		return edgeCode, true
	default:
		return 0, false
	}
}

func namespaceFromCode(code int) (Namespace, bool) {
	switch code {
	case schemaCode:
		return NamespaceSchema, true
	case dataCode:
		return NamespaceData, true
	case edgeCode:
		return NamespaceEdge, true
	default:
		return 0, false
	}
}

// Identity is the decoded form of a point identifier.
type Identity struct {
	Namespace Namespace
	ModelID   int64
	RecordID  int64
}

// Encode maps an identity triple onto a fixed-layout identifier.
//
// Encoding is deterministic and injective within the segment bounds: the
// same triple always yields the same id and no two distinct valid triples
// collide. Components that exceed their segment's capacity fail with an
// *EncodingError instead of being truncated; truncation would silently
// collide two different records onto the same identifier.
func Encode(ns Namespace, modelID, recordID int64) (string, error) {
	code, ok := ns.code()
	if !ok {
		return "", &EncodingError{Component: "namespace", Value: int64(ns), Max: edgeCode}
	}
	if modelID < 0 || modelID > MaxModelID {
		return "", &EncodingError{Component: "model_id", Value: modelID, Max: MaxModelID}
	}
	if recordID < 0 || recordID > MaxRecordID {
		return "", &EncodingError{Component: "record_id", Value: recordID, Max: MaxRecordID}
	}

	var b strings.Builder
	b.Grow(TotalWidth)
	writePadded(&b, int64(code), nsWidth)
	writePadded(&b, modelID, modelWidth)
	writePadded(&b, recordID, recordWidth)
	return b.String(), nil
}

// Decode maps an identifier back to its identity triple.
//
// Both the namespaced layout and the legacy two-segment layout (which
// predates namespaces and always meant a data record) are accepted.
// Malformed input (empty, non-numeric, wrong segment widths, unknown
// namespace code) fails with a *DecodingError.
func Decode(id string) (Identity, error) {
	if id == "" {
		return Identity{}, &DecodingError{ID: id, Reason: "empty identifier"}
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return Identity{}, &DecodingError{ID: id, Reason: "non-numeric segment"}
		}
	}

	switch len(id) {
	case TotalWidth:
		code := mustParse(id[:nsWidth])
		ns, ok := namespaceFromCode(int(code))
		if !ok {
			return Identity{}, &DecodingError{ID: id, Reason: "unknown namespace code"}
		}
		return Identity{
			Namespace: ns,
			ModelID:   mustParse(id[nsWidth : nsWidth+modelWidth]),
			RecordID:  mustParse(id[nsWidth+modelWidth:]),
		}, nil
	case LegacyWidth:
		return Identity{
			Namespace: NamespaceData,
			ModelID:   mustParse(id[:modelWidth]),
			RecordID:  mustParse(id[modelWidth:]),
		}, nil
	default:
		return Identity{}, &DecodingError{ID: id, Reason: "wrong segment count"}
	}
}

func writePadded(b *strings.Builder, v int64, width int) {
	s := strconv.FormatInt(v, 10)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// mustParse parses a digit-only substring. Callers have already verified
// every character is a digit and the substring is short enough for int64.
func mustParse(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
