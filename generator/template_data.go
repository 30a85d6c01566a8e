package generator

// HeaderData contains data for file header templates
type HeaderData struct {
	PackageName string
	Source      string
}

// FieldData contains data for a struct field
type FieldData struct {
	Comment string
	Name    string
	Type    string
	Tags    string
}

// StructData contains data for a struct type
type StructData struct {
	Comment  string
	TypeName string
	Embedded []string
	Fields   []FieldData
}

// EnumValueData contains data for a single enum value
type EnumValueData struct {
	ConstName string
	Value     string
}

// EnumData contains data for an enum type
type EnumData struct {
	Comment  string
	TypeName string
	BaseType string
	Values   []EnumValueData
}

// AliasData contains data for a type alias or defined type
type AliasData struct {
	Comment    string
	TypeName   string
	TargetType string
	IsAlias    bool // true for type alias (=), false for defined type
}

// TypeDefinition is a union type for different kind of type definitions
type TypeDefinition struct {
	Kind string // "struct", "enum", "alias"

	Struct *StructData
	Enum   *EnumData
	Alias  *AliasData
}

// TypesFileData contains all data for a types.go file
type TypesFileData struct {
	Header HeaderData
	Types  []TypeDefinition
}

// ClientFileData contains all data for a client.go file
type ClientFileData struct {
	Header           HeaderData
	DefaultUserAgent string
	Clients          []ClientData
}

// ClientData is one client struct and its methods.
type ClientData struct {
	TypeName string
	Methods  []ClientMethodData
}

// ClientMethodData contains data for a client method
type ClientMethodData struct {
	Comment string
	Name    string
	// Args is the argument list after ctx, rendered as "name type" pairs.
	Args       []ArgData
	ResultType string
	HTTPMethod string
	Path       string
	// OperationID is the source operation's ID, not rendered.
	OperationID string
	// Statements fill in the request; one Go statement each.
	Statements []string
}

// ArgData is one method argument.
type ArgData struct {
	Name string
	Type string
}
