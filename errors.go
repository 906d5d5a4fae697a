package anywhere

import "fmt"

// InvalidDocumentError reports a document with no executable root: it has no
// operations and is not a single standalone fragment definition.
type InvalidDocumentError struct{}

func (e *InvalidDocumentError) Error() string {
	return "graphql-anywhere: document has no operation or standalone fragment to execute"
}

// MissingFragmentError reports a fragment spread naming a fragment that is
// absent from the document.
type MissingFragmentError struct {
	Name string
}

func (e *MissingFragmentError) Error() string {
	return fmt.Sprintf("graphql-anywhere: no fragment named %q in document", e.Name)
}

// MissingVariableError reports an argument or directive referencing a
// variable that was not supplied to Execute.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("graphql-anywhere: variable $%s was not provided", e.Name)
}
