package config

// ProjectFileExt is the canonical extension of project declaration files.
const ProjectFileExt = ".hxtypes.yaml"

// ProjectFileExtensions are all recognized project file extensions
var ProjectFileExtensions = []string{".hxtypes.yaml", ".hxtypes.yml"}

// SettingsFileName is searched for from the working directory upwards when no -config flag is given.
const SettingsFileName = "hxtype.toml"

// Function type syntax
const (
	FunctionDelimiter = "->"
	OptionalMark      = "?"
	NameSeparator     = ":"
)

// Built-in type names
const (
	IntTypeName     = "Int"
	FloatTypeName   = "Float"
	StringTypeName  = "String"
	BoolTypeName    = "Bool"
	VoidTypeName    = "Void"
	DynamicTypeName = "Dynamic"
	UnknownTypeName = "Unknown"
)

// BuiltinTypeNames lists the names resolved without a class declaration.
var BuiltinTypeNames = []string{
	IntTypeName,
	FloatTypeName,
	StringTypeName,
	BoolTypeName,
	VoidTypeName,
	DynamicTypeName,
}

// IsBuiltinTypeName reports whether name is one of BuiltinTypeNames.
func IsBuiltinTypeName(name string) bool {
	for _, n := range BuiltinTypeNames {
		if n == name {
			return true
		}
	}
	return false
}
