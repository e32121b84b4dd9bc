package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "firestore-rules-tester context key " + string(c)
}

// ProjectIDKey is the key for the Firebase project ID in context.Context
const ProjectIDKey = contextKey("projectID")

// RunIDKey is the key for the test-run correlation ID in context.Context
const RunIDKey = contextKey("runID")

// ComponentKey is the key for the originating component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation being tested in context.Context
const OperationKey = contextKey("operation")
