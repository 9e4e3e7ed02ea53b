package ports

import (
	"context"
)

// Field is one named input or output of a generation signature.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Signature declares the contract of one generation call: named inputs
// the caller provides and named outputs the collaborator must return.
// Output order is part of the contract; prompt assembly follows it.
type Signature struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Inputs      []Field `json:"inputs"`
	Outputs     []Field `json:"outputs"`
}

// OutputNames returns the declared output field names in order.
func (s Signature) OutputNames() []string {
	names := make([]string, len(s.Outputs))
	for i, f := range s.Outputs {
		names[i] = f.Name
	}
	return names
}

// GeneratorPort produces the named output fields of a signature from the
// given inputs. Implementations must return a value for every declared
// output or an error; partial maps are a contract violation.
type GeneratorPort interface {
	Generate(ctx context.Context, sig Signature, inputs map[string]string) (map[string]string, error)
}
