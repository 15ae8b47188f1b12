package schema

// Store payload keys shared by every projected point, regardless of model.
// Business fields live next to these under their own names; FK pointer
// fields use the PtrSuffix convention.
const (
	PayloadModelName  = "model_name"
	PayloadModelID    = "model_id"
	PayloadRecordID   = "record_id"
	PayloadPointType  = "point_type"
	PayloadVectorText = "vector_text"
	PayloadSyncedAt   = "synced_at"

	// PtrSuffix is appended to a source field name to form its FK
	// pointer payload field: "account_id" -> "account_id_ptr".
	PtrSuffix = "_ptr"
)

// Point type payload values.
const (
	PointTypeRecord = "record"
	PointTypeSchema = "model_schema"
	PointTypeEdge   = "graph_edge"
)

// PtrField returns the payload field name holding the FK pointer for a
// source field.
func PtrField(field string) string {
	return field + PtrSuffix
}

// SystemField is a store-level field that exists on every point and is not
// part of any business schema. Each carries its own operator contract.
type SystemField struct {
	Name string
	Type FieldType
	Ops  OpSet
}

// systemFields is the fixed set of store-level fields. The point id only
// supports identity matching; the sync timestamp is orderable.
var systemFields = map[string]SystemField{
	"id": {
		Name: "id",
		Type: TypeChar,
		Ops:  NewOpSet(OpEq, OpIn),
	},
	PayloadModelName: {
		Name: PayloadModelName,
		Type: TypeSelection,
		Ops:  NewOpSet(OpEq, OpNeq, OpIn),
	},
	PayloadPointType: {
		Name: PayloadPointType,
		Type: TypeSelection,
		Ops:  NewOpSet(OpEq, OpNeq, OpIn),
	},
	PayloadRecordID: {
		Name: PayloadRecordID,
		Type: TypeInteger,
		Ops:  NewOpSet(OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn),
	},
	PayloadSyncedAt: {
		Name: PayloadSyncedAt,
		Type: TypeDatetime,
		Ops:  NewOpSet(OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte),
	},
}

// OperatorsForField returns the legal operator set for a declared field.
func OperatorsForField(f *FieldDescriptor) OpSet {
	return operatorsForType(f.Type)
}

// operatorsForType is the legal operator set per declared field type.
func operatorsForType(t FieldType) OpSet {
	switch {
	case t.TextLike():
		return NewOpSet(OpEq, OpNeq, OpIn, OpContains)
	case t.Orderable():
		return NewOpSet(OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn)
	case t == TypeBoolean:
		return NewOpSet(OpEq, OpNeq)
	case t == TypeSelection:
		return NewOpSet(OpEq, OpNeq, OpIn)
	case t == TypeMany2One:
		// Stored as the target record id.
		return NewOpSet(OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn)
	case t.ToMany():
		// Stored as a sequence of target record ids.
		return NewOpSet(OpEq, OpNeq, OpIn)
	case t == TypeJSON:
		return NewOpSet(OpEq, OpNeq, OpContains)
	default:
		// binary and anything unrecognized: nothing is legal.
		return NewOpSet()
	}
}
