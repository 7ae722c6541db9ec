package model

import (
	"sort"
	"strings"
	"sync"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

// SymbolSet is a set of symbol names. Sets returned by the model are shared
// and must not be modified.
type SymbolSet map[string]struct{}

// Has reports whether name is in the set.
func (s SymbolSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s SymbolSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class is the documentation model of one GDScript class.
type Class struct {
	Name        string        `json:"name"`
	Extends     []string      `json:"extends"`
	Description string        `json:"description"`
	Metadata    Metadata      `json:"metadata"`
	Path        string        `json:"path"`
	Functions   []Function    `json:"functions"`
	Members     []Member      `json:"members"`
	Signals     []Signal      `json:"signals"`
	Enums       []Enumeration `json:"enums"`

	symbolsOnce sync.Once
	symbols     SymbolSet
}

// NewClass builds a Class from its raw record. Instance methods come before
// static functions.
func NewClass(raw types.RawClass) *Class {
	desc, meta := ExtractMetadata(raw.Description)

	c := &Class{
		Name:        raw.Name,
		Extends:     raw.Extends,
		Description: strings.Trim(desc, "\n "),
		Metadata:    meta,
		Path:        raw.Path,
		Functions: append(
			FilterFunctions(raw.Methods, false),
			FilterFunctions(raw.StaticFunctions, true)...,
		),
		Members: FilterMembers(raw.Members),
		Enums:   SelectEnumerations(raw.Constants),
	}
	for _, s := range raw.Signals {
		c.Signals = append(c.Signals, NewSignal(s))
	}
	return c
}

// Category returns the category from the class metadata.
func (c *Class) Category() string {
	return c.Metadata.Category
}

// ExtendsString returns the inheritance chain as "Parent < Grandparent".
func (c *Class) ExtendsString() string {
	return strings.Join(c.Extends, " < ")
}

// Symbols returns the names of the class's functions, members and signals:
// the identifiers other documents may link to. Enumerations are not included.
func (c *Class) Symbols() SymbolSet {
	c.symbolsOnce.Do(func() {
		c.symbols = make(SymbolSet, len(c.Functions)+len(c.Members)+len(c.Signals))
		for _, f := range c.Functions {
			c.symbols[f.Name] = struct{}{}
		}
		for _, m := range c.Members {
			c.symbols[m.Name] = struct{}{}
		}
		for _, s := range c.Signals {
			c.symbols[s.Name] = struct{}{}
		}
	})
	return c.symbols
}

// Elements returns every documented element of the class: functions,
// members, signals, then enumerations.
func (c *Class) Elements() []Documented {
	out := make([]Documented, 0, len(c.Functions)+len(c.Members)+len(c.Signals)+len(c.Enums))
	for _, f := range c.Functions {
		out = append(out, f)
	}
	for _, m := range c.Members {
		out = append(out, m)
	}
	for _, s := range c.Signals {
		out = append(out, s)
	}
	for _, e := range c.Enums {
		out = append(out, e)
	}
	return out
}

// FunctionsOfKind returns the functions of the given kind in order.
func (c *Class) FunctionsOfKind(kind FunctionKind) []Function {
	var out []Function
	for _, f := range c.Functions {
		if f.FunctionKind == kind {
			out = append(out, f)
		}
	}
	return out
}
