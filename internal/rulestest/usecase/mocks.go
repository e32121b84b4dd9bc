package usecase

import (
	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/paths"
)

// Rules functions the oracle lets rule expressions call against fixture data.
const (
	mockFuncGet      = "get"
	mockFuncGetAfter = "getAfter"
	mockFuncExists   = "exists"
)

// BuildMocks derives the full set of function mocks the oracle needs to evaluate
// rule expressions against the fixture tree. Wildcard defaults come first so an
// unmodeled path degrades to "document absent" instead of an evaluation error,
// followed by an exact-match get/exists pair per document in enumeration order.
// For N documents that is 3+2N mocks.
func BuildMocks(tree model.Collections) []model.FunctionMock {
	entries := tree.Documents()

	mocks := make([]model.FunctionMock, 0, 3+2*len(entries))
	mocks = append(mocks,
		model.FunctionMock{
			Function: mockFuncGet,
			Args:     []model.MockArg{model.AnyArg()},
			Result:   model.MockResult{Value: nil},
		},
		model.FunctionMock{
			Function: mockFuncGetAfter,
			Args:     []model.MockArg{model.AnyArg()},
			Result:   model.MockResult{Value: nil},
		},
		model.FunctionMock{
			Function: mockFuncExists,
			Args:     []model.MockArg{model.AnyArg()},
			Result:   model.MockResult{Value: false},
		},
	)

	for _, entry := range entries {
		wirePath := paths.ToWire(entry.Path)
		mocks = append(mocks,
			model.FunctionMock{
				Function: mockFuncGet,
				Args:     []model.MockArg{model.ExactArg(wirePath)},
				Result:   model.MockResult{Value: map[string]interface{}{"data": entry.Doc.Fields}},
			},
			model.FunctionMock{
				Function: mockFuncExists,
				Args:     []model.MockArg{model.ExactArg(wirePath)},
				Result:   model.MockResult{Value: true},
			},
		)
	}

	return mocks
}

// BuildAfterMocks emits a getAfter exact-match mock per batch operation, carrying
// the post-write field state so rule expressions can inspect the would-be effect
// of every write in the batch within the same evaluation. A malformed update key
// fails the whole batch.
func BuildAfterMocks(tree model.Collections, batch []model.BatchOperation) ([]model.FunctionMock, error) {
	mocks := make([]model.FunctionMock, 0, len(batch))
	for _, op := range batch {
		after, err := afterState(tree, op)
		if err != nil {
			return nil, errors.NewValidationError("batch operation has an invalid update key").
				WithCause(err).
				WithDetail("document", op.Document)
		}

		var value interface{}
		if after != nil {
			value = map[string]interface{}{"data": after}
		}
		mocks = append(mocks, model.FunctionMock{
			Function: mockFuncGetAfter,
			Args:     []model.MockArg{model.ExactArg(paths.ToWire(op.Document))},
			Result:   model.MockResult{Value: value},
		})
	}
	return mocks, nil
}

// afterState computes the field state a document would have once the operation is
// applied. A delete yields nil, meaning the document reads as absent.
func afterState(tree model.Collections, op model.BatchOperation) (map[string]interface{}, error) {
	switch op.Method {
	case model.BatchSet:
		return op.Data, nil
	case model.BatchDelete:
		return nil, nil
	case model.BatchUpdate:
		var prior map[string]interface{}
		if doc := tree.GetDocument(op.Document); doc != nil {
			prior = doc.Fields
		}
		return model.ApplyUpdate(prior, op.Data)
	default:
		if doc := tree.GetDocument(op.Document); doc != nil {
			return doc.Fields, nil
		}
		return nil, nil
	}
}
