package graph

import (
	"github.com/google/uuid"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Edge payload keys. Edge points share the collection with record points
// and are told apart by the point_type payload field.
const (
	PayloadEdgeSource = "source_id"
	PayloadEdgeField  = "field"
	PayloadEdgeTarget = "target_id"
)

// edgeUUIDSpace seeds deterministic edge ids: the same relation always
// maps to the same point, so re-syncing overwrites instead of duplicating.
var edgeUUIDSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("erp-graph-edge"))

// EdgeID derives the deterministic point id of a relation.
func EdgeID(sourcePointID, field, targetPointID string) string {
	name := sourcePointID + "\x1f" + field + "\x1f" + targetPointID
	return uuid.NewSHA1(edgeUUIDSpace, []byte(name)).String()
}

// NewEdgePoint builds the stored form of one discovered relation.
func NewEdgePoint(modelName, sourcePointID, field, targetPointID string) vectordb.Point {
	return vectordb.Point{
		ID: EdgeID(sourcePointID, field, targetPointID),
		Payload: map[string]any{
			schema.PayloadPointType: schema.PointTypeEdge,
			schema.PayloadModelName: modelName,
			PayloadEdgeSource:       sourcePointID,
			PayloadEdgeField:        field,
			PayloadEdgeTarget:       targetPointID,
		},
	}
}
