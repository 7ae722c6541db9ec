package model

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

func loadFixture(t *testing.T) *Reference {
	t.Helper()
	data, err := os.ReadFile("../../testdata/reference.json")
	require.NoError(t, err)
	raw, err := types.DecodeReference(data)
	require.NoError(t, err)
	return NewReference(raw)
}

func TestNewClassFromFixture(t *testing.T) {
	ref := loadFixture(t)
	player, ok := ref.Classes.Get("Player")
	require.True(t, ok)

	assert.Equal(t, "The controllable character.\nReads [Stats.max_health] on spawn.", player.Description)
	assert.Equal(t, "Actors", player.Category())
	assert.Equal(t, []string{"character", "controllable"}, player.Metadata.Tags)
	assert.Equal(t, "KinematicBody2D", player.ExtendsString())
	assert.Equal(t, "res://actors/player.gd", player.Path)

	assert.Equal(t, []string{"_update_state", "move", "get_health", "create"}, names(player.Functions))
	assert.Equal(t, Virtual, player.Functions[0].FunctionKind)
	assert.Equal(t, Method, player.Functions[1].FunctionKind)
	assert.Equal(t, Static, player.Functions[3].FunctionKind)
	assert.Equal(t, "move(direction: Vector2) -> void", player.Functions[1].Signature)
	assert.Equal(t, "void", player.Functions[1].ReturnType)
	assert.Equal(t, 1, player.Functions[1].RPCMode)

	require.Len(t, player.Members, 1)
	assert.Equal(t, "health", player.Members[0].Name)
	require.Len(t, player.Signals, 2)
	require.Len(t, player.Enums, 1)
	assert.Equal(t, "States", player.Enums[0].Name)

	assert.Len(t, player.FunctionsOfKind(Method), 2)
	assert.Len(t, player.Elements(), 8)
}

func TestClassSymbols(t *testing.T) {
	c := NewClass(types.RawClass{
		Name:            "A",
		Methods:         []types.RawMethod{method("run", ""), method("_hidden", "")},
		StaticFunctions: []types.RawMethod{method("make", "")},
		Members:         []types.RawMember{{Name: "speed"}, {Name: "_cache"}},
		Signals:         []types.RawSignal{{Name: "done"}},
		Constants: []types.RawConstant{
			{Name: "Mode", DataType: types.DictionaryType, Values: map[string]any{"ON": 1.0}},
		},
	})

	symbols := c.Symbols()
	assert.Equal(t, []string{"done", "make", "run", "speed"}, symbols.Sorted())
	assert.False(t, symbols.Has("Mode"), "enumerations are not symbols")
	assert.False(t, symbols.Has("_hidden"))

	again := c.Symbols()
	again["probe"] = struct{}{}
	assert.True(t, c.Symbols().Has("probe"), "symbol set is computed once and shared")
}

func TestClassExtendsChain(t *testing.T) {
	c := NewClass(types.RawClass{Name: "Boss", Extends: []string{"Enemy", "KinematicBody2D"}})
	assert.Equal(t, "Enemy < KinematicBody2D", c.ExtendsString())

	c = NewClass(types.RawClass{Name: "Root"})
	assert.Equal(t, "", c.ExtendsString())
}

func TestClassDescriptionTrim(t *testing.T) {
	c := NewClass(types.RawClass{Name: "A", Description: "\n  \nText.\ncategory: X\n\n"})
	assert.Equal(t, "Text.", c.Description)
	assert.Equal(t, "X", c.Category())
	assert.Empty(t, c.Functions)
	assert.Empty(t, c.Symbols())
}
