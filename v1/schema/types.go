package schema

// FieldType is the declared type of a model field in the source system.
type FieldType string

const (
	TypeChar      FieldType = "char"
	TypeText      FieldType = "text"
	TypeHTML      FieldType = "html"
	TypeInteger   FieldType = "integer"
	TypeFloat     FieldType = "float"
	TypeMonetary  FieldType = "monetary"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeDatetime  FieldType = "datetime"
	TypeSelection FieldType = "selection"
	TypeMany2One  FieldType = "many2one"
	TypeOne2Many  FieldType = "one2many"
	TypeMany2Many FieldType = "many2many"
	TypeBinary    FieldType = "binary"
	TypeJSON      FieldType = "json"
)

// Relational reports whether the field points at another model.
func (t FieldType) Relational() bool {
	switch t {
	case TypeMany2One, TypeOne2Many, TypeMany2Many:
		return true
	default:
		return false
	}
}

// ToMany reports whether the field holds a sequence of targets.
func (t FieldType) ToMany() bool {
	return t == TypeOne2Many || t == TypeMany2Many
}

// Orderable reports whether range operators make sense for the type.
func (t FieldType) Orderable() bool {
	switch t {
	case TypeInteger, TypeFloat, TypeMonetary, TypeDate, TypeDatetime:
		return true
	default:
		return false
	}
}

// TextLike reports whether substring matching makes sense for the type.
func (t FieldType) TextLike() bool {
	switch t {
	case TypeChar, TypeText, TypeHTML:
		return true
	default:
		return false
	}
}

// Op is a filter operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// OpSet is a set of legal operators for a field.
type OpSet map[Op]struct{}

// NewOpSet builds a set from the given operators.
func NewOpSet(ops ...Op) OpSet {
	s := make(OpSet, len(ops))
	for _, op := range ops {
		s[op] = struct{}{}
	}
	return s
}

// Contains reports whether op is in the set.
func (s OpSet) Contains(op Op) bool {
	_, ok := s[op]
	return ok
}

// List returns the operators in a stable order.
func (s OpSet) List() []Op {
	order := []Op{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains}
	out := make([]Op, 0, len(s))
	for _, op := range order {
		if s.Contains(op) {
			out = append(out, op)
		}
	}
	return out
}

// FieldDescriptor describes one field of a source model.
type FieldDescriptor struct {
	// Name is the field name as the source system knows it.
	Name string `json:"name"`

	// Type is the declared field type.
	Type FieldType `json:"type"`

	// Stored is false for computed fields that never reach the store
	// payload and therefore can only be filtered in-memory.
	Stored bool `json:"stored"`

	// Indexed reports whether the store maintains a payload index for
	// this field, making it natively filterable.
	Indexed bool `json:"indexed"`

	// FKTargetModelID is the model id a relational field points at.
	// Zero when the field is not relational.
	FKTargetModelID int64 `json:"fkTargetModelId,omitempty"`
}

// ModelSchema is the field metadata for one source model.
type ModelSchema struct {
	// ModelID is the stable small integer identifying the model.
	ModelID int64 `json:"modelId"`

	// ModelName is the dotted source model name, e.g. "account.move.line".
	ModelName string `json:"modelName"`

	// PrimaryKeyFieldID identifies the primary key field in the source.
	PrimaryKeyFieldID int64 `json:"primaryKeyFieldId"`

	// Fields is the ordered field list.
	Fields []FieldDescriptor `json:"fields"`
}

// FKFields returns the relational fields of the model.
func (m ModelSchema) FKFields() []FieldDescriptor {
	var out []FieldDescriptor
	for _, f := range m.Fields {
		if f.Type.Relational() {
			out = append(out, f)
		}
	}
	return out
}
