package model

// Expectation states whether a simulated request should be allowed or denied.
type Expectation string

const (
	ExpectAllow Expectation = "ALLOW"
	ExpectDeny  Expectation = "DENY"
)

// RequestMethod is the access method named in a simulated request.
type RequestMethod string

const (
	MethodGet    RequestMethod = "get"
	MethodList   RequestMethod = "list"
	MethodCreate RequestMethod = "create"
	MethodUpdate RequestMethod = "update"
	MethodDelete RequestMethod = "delete"
	MethodRead   RequestMethod = "read"
	MethodWrite  RequestMethod = "write"
)

// Auth is the identity simulated for a request. A nil Auth, or one with an empty
// UID, means unauthenticated.
type Auth struct {
	UID string `json:"uid,omitempty"`
}

// Request addresses a single simulated access on the wire.
type Request struct {
	Auth   *Auth         `json:"auth,omitempty"`
	Path   string        `json:"path"`
	Method RequestMethod `json:"method"`
}

// Resource carries the document data a request operates on. Data is null for reads
// of absent documents and for deletes.
type Resource struct {
	Data map[string]interface{} `json:"data"`
}

// MockArg matches one argument of a mocked rules function, either exactly or as a
// wildcard. Exactly one of the two fields is set.
type MockArg struct {
	ExactValue interface{} `json:"exact_value,omitempty"`
	AnyValue   *struct{}   `json:"anyValue,omitempty"`
}

// ExactArg matches a single argument by value.
func ExactArg(value interface{}) MockArg {
	return MockArg{ExactValue: value}
}

// AnyArg matches any argument value.
func AnyArg() MockArg {
	return MockArg{AnyValue: &struct{}{}}
}

// MockResult is the value a mocked rules function returns.
type MockResult struct {
	Value interface{} `json:"value"`
}

// FunctionMock is a declarative stub telling the oracle what a named callable
// returns when invoked with a matching argument.
type FunctionMock struct {
	Function string     `json:"function"`
	Args     []MockArg  `json:"args"`
	Result   MockResult `json:"result"`
}

// TestCase is one simulated request in the oracle's wire schema.
type TestCase struct {
	Expectation   Expectation    `json:"expectation"`
	Request       Request        `json:"request"`
	Resource      *Resource      `json:"resource,omitempty"`
	FunctionMocks []FunctionMock `json:"functionMocks"`
}

// ResultState is the oracle's verdict for a single case.
type ResultState string

const (
	StateSuccess ResultState = "SUCCESS"
	StateFailure ResultState = "FAILURE"
)

// TestResult is the oracle's outcome for one case.
type TestResult struct {
	State         ResultState `json:"state"`
	DebugMessages []string    `json:"debugMessages,omitempty"`
}

// CaseResult pairs a submitted case with its oracle result.
type CaseResult struct {
	Case   TestCase   `json:"case"`
	Result TestResult `json:"result"`
}

// TestSummary aggregates one or more case results into a single verdict. A batch
// maps to multiple cases, one per write.
type TestSummary struct {
	Success bool         `json:"success"`
	Tests   []CaseResult `json:"tests"`
}
