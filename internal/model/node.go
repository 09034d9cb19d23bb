package model

// NodeKind represents the category of a type-expression node.
type NodeKind string

const (
	KindName         NodeKind = "NAME"
	KindNumber       NodeKind = "NUMBER_VALUE"
	KindString       NodeKind = "STRING_VALUE"
	KindUnion        NodeKind = "UNION"
	KindIntersection NodeKind = "INTERSECTION"
	KindParenthesis  NodeKind = "PARENTHESIS"
	KindGeneric      NodeKind = "GENERIC"
	KindUntyped      NodeKind = "UNTYPED"

	// Parsed but not convertible.
	KindExternal    NodeKind = "EXTERNAL"
	KindModule      NodeKind = "MODULE"
	KindMember      NodeKind = "MEMBER"
	KindAny         NodeKind = "ANY"
	KindUnknown     NodeKind = "UNKNOWN"
	KindNullable    NodeKind = "NULLABLE"
	KindNotNullable NodeKind = "NOT_NULLABLE"
	KindOptional    NodeKind = "OPTIONAL"
	KindVariadic    NodeKind = "VARIADIC"
	KindRecord      NodeKind = "RECORD"
)

// TypeNode is a node of a parsed type expression. The set of implementations
// is closed to this package.
type TypeNode interface {
	Kind() NodeKind
	typeNode()
}

// Name is a bare type name such as "number" or "Circle".
type Name struct {
	Name string
}

// Number is a numeric literal. Raw keeps the source spelling.
type Number struct {
	Value float64
	Raw   string
}

// String is a quoted string literal.
type String struct {
	Value string
}

// Union is a "|" pair. Chains nest to the right.
type Union struct {
	Left, Right TypeNode
}

// Intersection is a "&" pair. Chains nest to the right.
type Intersection struct {
	Left, Right TypeNode
}

// Parenthesis is a grouped expression.
type Parenthesis struct {
	Value TypeNode
}

// Generic is Subject<Objects...>; "T[]" parses as Array<T>.
type Generic struct {
	Subject TypeNode
	Objects []TypeNode
}

// Untyped stands for a tag written without a type expression.
type Untyped struct{}

// External is "external:Name".
type External struct {
	Name string
}

// Module is "module:path".
type Module struct {
	Path string
}

// Member is "Owner.Name".
type Member struct {
	Owner TypeNode
	Name  string
}

// Any is "*".
type Any struct{}

// Unknown is "?".
type Unknown struct{}

// Nullable is "?T".
type Nullable struct {
	Value TypeNode
}

// NotNullable is "!T".
type NotNullable struct {
	Value TypeNode
}

// Optional is "T=".
type Optional struct {
	Value TypeNode
}

// Variadic is "...T".
type Variadic struct {
	Value TypeNode
}

// RecordEntry is one "key: T" entry of a record type.
type RecordEntry struct {
	Key   string
	Value TypeNode // nil when the entry has no type
}

// Record is "{key: T, ...}".
type Record struct {
	Entries []RecordEntry
}

func (*Name) Kind() NodeKind         { return KindName }
func (*Number) Kind() NodeKind       { return KindNumber }
func (*String) Kind() NodeKind       { return KindString }
func (*Union) Kind() NodeKind        { return KindUnion }
func (*Intersection) Kind() NodeKind { return KindIntersection }
func (*Parenthesis) Kind() NodeKind  { return KindParenthesis }
func (*Generic) Kind() NodeKind      { return KindGeneric }
func (*Untyped) Kind() NodeKind      { return KindUntyped }
func (*External) Kind() NodeKind     { return KindExternal }
func (*Module) Kind() NodeKind       { return KindModule }
func (*Member) Kind() NodeKind       { return KindMember }
func (*Any) Kind() NodeKind          { return KindAny }
func (*Unknown) Kind() NodeKind      { return KindUnknown }
func (*Nullable) Kind() NodeKind     { return KindNullable }
func (*NotNullable) Kind() NodeKind  { return KindNotNullable }
func (*Optional) Kind() NodeKind     { return KindOptional }
func (*Variadic) Kind() NodeKind     { return KindVariadic }
func (*Record) Kind() NodeKind       { return KindRecord }

func (*Name) typeNode()         {}
func (*Number) typeNode()       {}
func (*String) typeNode()       {}
func (*Union) typeNode()        {}
func (*Intersection) typeNode() {}
func (*Parenthesis) typeNode()  {}
func (*Generic) typeNode()      {}
func (*Untyped) typeNode()      {}
func (*External) typeNode()     {}
func (*Module) typeNode()       {}
func (*Member) typeNode()       {}
func (*Any) typeNode()          {}
func (*Unknown) typeNode()      {}
func (*Nullable) typeNode()     {}
func (*NotNullable) typeNode()  {}
func (*Optional) typeNode()     {}
func (*Variadic) typeNode()     {}
func (*Record) typeNode()       {}

// Chain flattens a right-nested union or intersection into its operands.
// A node of another kind yields itself.
func Chain(n TypeNode) []TypeNode {
	var out []TypeNode
	for {
		switch v := n.(type) {
		case *Union:
			out = append(out, v.Left)
			n = v.Right
			if _, ok := n.(*Union); ok {
				continue
			}
		case *Intersection:
			out = append(out, v.Left)
			n = v.Right
			if _, ok := n.(*Intersection); ok {
				continue
			}
		}
		return append(out, n)
	}
}
