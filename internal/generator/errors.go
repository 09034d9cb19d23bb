package generator

import "errors"

// Conversion failures. Every error returned by the generator wraps one of
// these (or parser.ErrSyntax) and aborts the whole conversion.
var (
	// ErrUnsupportedType reports a type-expression node with no schema rule.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrUnrecognizedTypeName reports a name outside the JSON Schema
	// vocabulary and the alias table.
	ErrUnrecognizedTypeName = errors.New("unrecognized type name")
	// ErrUnsupportedEnumCombination reports a union or intersection mixing
	// literal kinds, or literals with references.
	ErrUnsupportedEnumCombination = errors.New("unsupported enum combination")
	// ErrMalformedDefault reports a default that is not JSON text.
	ErrMalformedDefault = errors.New("malformed default")
	// ErrMissingTitle reports an untitled typedef in $defs mode.
	ErrMissingTitle = errors.New("missing title")
	// ErrMissingRootType reports that $defs mode found no root schema.
	ErrMissingRootType = errors.New("missing root type")
)
