package usecase

import (
	"fmt"

	"firestore-rules-tester/internal/rulestest/domain/model"
	"firestore-rules-tester/internal/shared/errors"
	"firestore-rules-tester/internal/shared/paths"
)

// MakeGetCase translates a read assertion into the oracle's wire schema. Resource
// data is the document's current fields, or null when it does not exist.
func MakeGetCase(tree model.Collections, expectation model.Expectation, auth *model.Auth, path string) model.TestCase {
	var data map[string]interface{}
	if doc := tree.GetDocument(path); doc != nil {
		data = doc.Fields
	}

	return model.TestCase{
		Expectation: expectation,
		Request: model.Request{
			Auth:   auth,
			Path:   paths.ToWire(path),
			Method: model.MethodGet,
		},
		Resource:      &model.Resource{Data: data},
		FunctionMocks: BuildMocks(tree),
	}
}

// MakeCommitCases translates a batch of writes into one oracle case per operation.
// Every case carries the after-mocks for the entire batch, so rules that reference
// sibling writes within the same transaction evaluate consistently.
func MakeCommitCases(tree model.Collections, expectation model.Expectation, auth *model.Auth, batch []model.BatchOperation) ([]model.TestCase, error) {
	for _, op := range batch {
		if err := paths.ValidateDocumentPath(op.Document); err != nil {
			return nil, err
		}
	}

	afterMocks, err := BuildAfterMocks(tree, batch)
	if err != nil {
		return nil, err
	}
	mocks := append(BuildMocks(tree), afterMocks...)

	cases := make([]model.TestCase, 0, len(batch))
	for _, op := range batch {
		method, err := commitMethod(tree, op)
		if err != nil {
			return nil, err
		}

		var resource *model.Resource
		if op.Method == model.BatchDelete {
			resource = &model.Resource{Data: nil}
		} else {
			resource = &model.Resource{Data: op.Data}
		}

		cases = append(cases, model.TestCase{
			Expectation: expectation,
			Request: model.Request{
				Auth:   auth,
				Path:   paths.ToWire(op.Document),
				Method: method,
			},
			Resource:      resource,
			FunctionMocks: mocks,
		})
	}

	return cases, nil
}

// commitMethod derives the wire method for a write. A set becomes a create when
// the target document does not currently exist, an update otherwise; update and
// delete pass through.
func commitMethod(tree model.Collections, op model.BatchOperation) (model.RequestMethod, error) {
	switch op.Method {
	case model.BatchSet:
		if tree.HasDocument(op.Document) {
			return model.MethodUpdate, nil
		}
		return model.MethodCreate, nil
	case model.BatchUpdate:
		return model.MethodUpdate, nil
	case model.BatchDelete:
		return model.MethodDelete, nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unsupported batch operation %q", op.Method)).
			WithCause(errors.ErrUnsupportedOp).
			WithDetail("document", op.Document)
	}
}
