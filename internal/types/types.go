// Package types holds the raw records of a GDScript reflection dump, as
// written by the Godot reference collector, before any filtering or
// normalization.
package types

// DictionaryType is the data type the reference collector reports for a
// constant holding a named enum group.
const DictionaryType = "Dictionary"

// RawReference is the top-level reflection dump: project information plus the
// class records.
type RawReference struct {
	Project RawProject `json:"project"`
	Classes []RawClass `json:"classes"`
}

// RawProject holds the project fields of the dump.
type RawProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// RawClass is one class record.
type RawClass struct {
	Name            string        `json:"name"`
	Extends         []string      `json:"extends_class"` // nearest parent first
	Description     string        `json:"description"`
	Path            string        `json:"path"`
	Methods         []RawMethod   `json:"methods"`
	StaticFunctions []RawMethod   `json:"static_functions"`
	Members         []RawMember   `json:"members"`
	Signals         []RawSignal   `json:"signals"`
	Constants       []RawConstant `json:"constants"`
}

// RawMethod is a method or static function record.
type RawMethod struct {
	Name        string        `json:"name"`
	Signature   string        `json:"signature"`
	Description string        `json:"description"`
	Arguments   []RawArgument `json:"arguments"`
	ReturnType  string        `json:"return_type"`
	RPCMode     int           `json:"rpc_mode,omitempty"`
}

// RawArgument is a single function argument.
type RawArgument struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RawMember is a property or member variable record.
type RawMember struct {
	Name         string `json:"name"`
	Signature    string `json:"signature"`
	Description  string `json:"description"`
	DataType     string `json:"data_type"`
	DefaultValue string `json:"default_value"`
	Export       bool   `json:"export"`
	Setter       string `json:"setter"`
	Getter       string `json:"getter"`
}

// RawSignal is a signal record. Arguments are kept in their string form.
type RawSignal struct {
	Name        string   `json:"name"`
	Signature   string   `json:"signature"`
	Description string   `json:"description"`
	Arguments   []string `json:"arguments"`
}

// RawConstant is a constant record. Values is only set for constants of
// DictionaryType.
type RawConstant struct {
	Name        string         `json:"name"`
	Signature   string         `json:"signature,omitempty"`
	Description string         `json:"description,omitempty"`
	DataType    string         `json:"data_type"`
	Value       any            `json:"value,omitempty"`
	Values      map[string]any `json:"values,omitempty"`
}
