package vectordb

// Point is the addressable unit stored in the vector store.
type Point struct {
	// ID is the codec-produced identifier of the point.
	ID string `json:"id"`

	// Vector is the embedding. May be empty on reads that skip vectors.
	Vector []float32 `json:"vector,omitempty"`

	// Payload contains the metadata stored with the vector.
	Payload map[string]any `json:"payload,omitempty"`
}

// ScrollRequest asks for one page of points matching a filter, in stable
// store order. Pass the cursor from the previous result to continue.
type ScrollRequest struct {
	// CollectionName is the collection to scan.
	CollectionName string `json:"collectionName"`

	// Filter restricts which points are returned. Nil scans everything.
	Filter *FilterSet `json:"filter,omitempty"`

	// Limit is the maximum number of points in this page.
	Limit int `json:"limit"`

	// Cursor is the opaque continuation token from the previous page.
	// Empty starts from the beginning.
	Cursor string `json:"cursor,omitempty"`

	// WithPayload includes point payloads in the result.
	WithPayload bool `json:"withPayload"`

	// WithVector includes point vectors in the result.
	WithVector bool `json:"withVector"`
}

// ScrollResult is one page of a scan.
type ScrollResult struct {
	// Points are the page contents, in store order.
	Points []Point `json:"points"`

	// NextCursor continues the scan. Empty means the scan is exhausted.
	NextCursor string `json:"nextCursor,omitempty"`
}

// CountRequest asks how many points match a filter.
type CountRequest struct {
	CollectionName string     `json:"collectionName"`
	Filter         *FilterSet `json:"filter,omitempty"`

	// Exact requests a precise count rather than an index estimate.
	Exact bool `json:"exact"`
}

// PayloadIndexType selects the index kind for CreatePayloadIndex.
type PayloadIndexType string

const (
	IndexKeyword  PayloadIndexType = "keyword"
	IndexInteger  PayloadIndexType = "integer"
	IndexFloat    PayloadIndexType = "float"
	IndexBool     PayloadIndexType = "bool"
	IndexDatetime PayloadIndexType = "datetime"
	IndexText     PayloadIndexType = "text"
)

// Collection contains metadata about a vector collection.
type Collection struct {
	// Name is the unique identifier of the collection.
	Name string `json:"name"`

	// Status indicates the operational state (e.g., "Green", "Yellow").
	Status string `json:"status"`

	// VectorSize is the dimension of vectors in this collection.
	VectorSize int `json:"vectorSize"`

	// Distance is the similarity metric (e.g., "Cosine", "Dot", "Euclid").
	Distance string `json:"distance"`

	// PointCount is the number of stored points.
	PointCount uint64 `json:"pointCount"`
}
