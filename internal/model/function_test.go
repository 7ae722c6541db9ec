package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

func method(name, description string, args ...types.RawArgument) types.RawMethod {
	return types.RawMethod{
		Name:        name,
		Signature:   name + "() -> null",
		Description: description,
		Arguments:   args,
		ReturnType:  "null",
	}
}

func names(functions []Function) []string {
	out := make([]string, 0, len(functions))
	for _, f := range functions {
		out = append(out, f.Name)
	}
	return out
}

func TestFilterFunctionsBuiltinCallbacks(t *testing.T) {
	var raw []types.RawMethod
	for name := range BuiltinCallbacks {
		raw = append(raw, method(name, "tags: virtual"))
	}
	assert.Empty(t, FilterFunctions(raw, false))
	assert.Empty(t, FilterFunctions(raw, true))
}

func TestFilterFunctionsConstructor(t *testing.T) {
	arg := types.RawArgument{Name: "size", Type: "int"}

	got := FilterFunctions([]types.RawMethod{method(ConstructorName, "")}, false)
	assert.Empty(t, got, "default constructor is not documented")

	got = FilterFunctions([]types.RawMethod{method(ConstructorName, "", arg)}, false)
	require.Len(t, got, 1)
	assert.Equal(t, Method, got[0].FunctionKind)

	got = FilterFunctions([]types.RawMethod{method(ConstructorName, "tags: virtual", arg)}, false)
	require.Len(t, got, 1)
	assert.Equal(t, Virtual, got[0].FunctionKind)
}

func TestFilterFunctionsPrivate(t *testing.T) {
	raw := []types.RawMethod{
		method("_helper", "Internal."),
		method("_override_me", "Override point.\ntags: virtual"),
		method("public", "Public."),
	}

	got := FilterFunctions(raw, false)
	require.Equal(t, []string{"_override_me", "public"}, names(got))
	assert.Equal(t, Virtual, got[0].FunctionKind)
	assert.Equal(t, Method, got[1].FunctionKind)
	assert.Equal(t, "Override point.", got[0].Description)
}

func TestFilterFunctionsStaticBatch(t *testing.T) {
	raw := []types.RawMethod{
		method("create", "tags: virtual"),
		method("_private_static", "tags: virtual"),
		method("build", ""),
	}

	got := FilterFunctions(raw, true)
	require.Equal(t, []string{"create", "build"}, names(got), "static functions are never virtual")
	for _, f := range got {
		assert.Equal(t, Static, f.FunctionKind)
	}
}

func TestNewFunctionRewritesNull(t *testing.T) {
	f := NewFunction(types.RawMethod{
		Name:       "foo",
		Signature:  "foo(a: null) -> null",
		ReturnType: "null or null",
	}, Method)
	assert.Equal(t, "foo(a: null) -> void", f.Signature)
	assert.Equal(t, "void or null", f.ReturnType)

	f = NewFunction(types.RawMethod{Name: "bar", Signature: "bar() -> null -> null", ReturnType: "int"}, Method)
	assert.Equal(t, "bar() -> void -> null", f.Signature)
	assert.Equal(t, "int", f.ReturnType)
	assert.Equal(t, []string{"int", "bar() -> void -> null"}, f.Summarize())
}

func TestNewFunctionFields(t *testing.T) {
	f := NewFunction(types.RawMethod{
		Name:        "move",
		Signature:   "move(dir: Vector2) -> null",
		Description: "\nMoves.\ncategory: Motion\n",
		Arguments:   []types.RawArgument{{Name: "dir", Type: "Vector2"}},
		ReturnType:  "null",
		RPCMode:     2,
	}, Virtual)

	assert.Equal(t, KindFunction, f.Kind())
	assert.Equal(t, "move", f.Base().Name)
	assert.Equal(t, "Moves.", f.Description)
	assert.Equal(t, "Motion", f.Metadata.Category)
	assert.Equal(t, []Argument{{Name: "dir", Type: "Vector2"}}, f.Arguments)
	assert.Equal(t, 2, f.RPCMode)
	assert.Equal(t, Virtual, f.FunctionKind)
}

func TestFilterFunctionsPreservesOrder(t *testing.T) {
	raw := []types.RawMethod{method("c", ""), method("_ready", ""), method("a", ""), method("b", "")}
	assert.Equal(t, []string{"c", "a", "b"}, names(FilterFunctions(raw, false)))
}
