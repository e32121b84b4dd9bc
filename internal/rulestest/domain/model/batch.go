package model

// BatchMethod identifies the kind of write in a batch operation.
type BatchMethod string

const (
	BatchSet    BatchMethod = "set"
	BatchUpdate BatchMethod = "update"
	BatchDelete BatchMethod = "delete"
)

// BatchOperation is a single write addressed by logical document path. Data is
// opaque until consumed by the test-case translator.
type BatchOperation struct {
	Method   BatchMethod            `json:"method"`
	Document string                 `json:"document"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// NewSet builds an operation that replaces a document's fields wholesale. It acts
// as a create when the document is absent and an update when it exists.
func NewSet(path string, data map[string]interface{}) BatchOperation {
	return BatchOperation{Method: BatchSet, Document: path, Data: data}
}

// NewUpdate builds an operation that merges data into existing fields using
// dotted-path assignment semantics.
func NewUpdate(path string, data map[string]interface{}) BatchOperation {
	return BatchOperation{Method: BatchUpdate, Document: path, Data: data}
}

// NewDelete builds an operation that removes all field data; the document is
// treated as non-existent afterward.
func NewDelete(path string) BatchOperation {
	return BatchOperation{Method: BatchDelete, Document: path}
}
