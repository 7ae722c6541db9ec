package model

import (
	"strings"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

const (
	// ConstructorName is the name of the GDScript constructor.
	ConstructorName = "_init"
	// PrivatePrefix marks private functions and members.
	PrivatePrefix = "_"
	// VirtualTag in a function's tags documents a private-named override point.
	VirtualTag = "virtual"
)

// BuiltinCallbacks are engine-invoked virtual methods that never appear in
// the class reference.
var BuiltinCallbacks = map[string]bool{
	"_process":                   true,
	"_physics_process":           true,
	"_input":                     true,
	"_unhandled_input":           true,
	"_gui_input":                 true,
	"_draw":                      true,
	"_get_configuration_warning": true,
	"_ready":                     true,
	"_enter_tree":                true,
	"_exit_tree":                 true,
	"_get":                       true,
	"_get_property_list":         true,
	"_notification":              true,
	"_set":                       true,
	"_to_string":                 true,
	"_clips_input":               true,
	"_get_minimum_size":          true,
	"_make_custom_tooltip":       true,
}

// FunctionKind classifies a documented function.
type FunctionKind string

const (
	Method  FunctionKind = "method"
	Virtual FunctionKind = "virtual"
	Static  FunctionKind = "static"
)

// Argument is a function argument.
type Argument struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is a documented method, virtual method or static function.
type Function struct {
	Element
	FunctionKind FunctionKind `json:"kind"`
	ReturnType   string       `json:"return_type"`
	Arguments    []Argument   `json:"arguments"`
	RPCMode      int          `json:"rpc_mode"`
}

func (Function) Kind() ElementKind { return KindFunction }

// NewFunction builds a Function of the given kind. The dump writes a missing
// return value as null; the first occurrence is rewritten to void.
func NewFunction(raw types.RawMethod, kind FunctionKind) Function {
	f := Function{
		Element:      newElement(raw.Signature, raw.Name, raw.Description),
		FunctionKind: kind,
		ReturnType:   strings.Replace(raw.ReturnType, "null", "void", 1),
		Arguments:    make([]Argument, 0, len(raw.Arguments)),
		RPCMode:      raw.RPCMode,
	}
	f.Signature = strings.Replace(f.Signature, "-> null", "-> void", 1)
	for _, a := range raw.Arguments {
		f.Arguments = append(f.Arguments, Argument{Name: a.Name, Type: a.Type})
	}
	return f
}

// Summarize returns the return type and signature, the columns of a function
// summary table.
func (f Function) Summarize() []string {
	return []string{f.ReturnType, f.Signature}
}

// FilterFunctions returns the functions of raw that belong in the class
// reference, in input order. Built-in callbacks, the argument-less
// constructor and private functions are skipped, except private functions
// tagged virtual. A constructor taking arguments is public. static marks the
// static_functions batch.
func FilterFunctions(raw []types.RawMethod, static bool) []Function {
	var functions []Function
	for _, entry := range raw {
		if BuiltinCallbacks[entry.Name] {
			continue
		}
		if entry.Name == ConstructorName && len(entry.Arguments) == 0 {
			continue
		}

		_, meta := ExtractMetadata(entry.Description)
		virtual := meta.HasTag(VirtualTag) && !static
		if isPrivate(entry.Name) && !virtual {
			continue
		}

		kind := Method
		switch {
		case static:
			kind = Static
		case virtual:
			kind = Virtual
		}
		functions = append(functions, NewFunction(entry, kind))
	}
	return functions
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, PrivatePrefix) && name != ConstructorName
}
