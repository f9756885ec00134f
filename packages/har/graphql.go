package har

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	errPostDataNotJSON = errors.New("post data is not a JSON object")
	errNoQuery         = errors.New("post data has no query string")
	errNoOperation     = errors.New("query has no operation")
	errNoField         = errors.New("first selection of the operation is not a field")
)

// OperationName returns the name of the first field selected by the first
// operation of the GraphQL query posted in postData, a JSON body of the form
// {"query": "..."}. For "query { getUser { id } }" it returns "getUser".
func OperationName(postData string) (string, error) {
	if !gjson.Valid(postData) {
		return "", errPostDataNotJSON
	}
	query := gjson.Get(postData, "query")
	if query.Type != gjson.String {
		return "", errNoQuery
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: query.String()})
	if err != nil {
		return "", fmt.Errorf("parse query: %w", err)
	}
	if len(doc.Operations) == 0 || len(doc.Operations[0].SelectionSet) == 0 {
		return "", errNoOperation
	}

	field, ok := doc.Operations[0].SelectionSet[0].(*ast.Field)
	if !ok || field.Name == "" {
		return "", errNoField
	}
	return field.Name, nil
}
