package model

import (
	"sort"
	"strings"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

// ElementKind identifies the variant behind a Documented value.
type ElementKind string

const (
	KindSignal      ElementKind = "signal"
	KindFunction    ElementKind = "function"
	KindMember      ElementKind = "member"
	KindEnumeration ElementKind = "enumeration"
)

// Documented is implemented by every element variant.
type Documented interface {
	Base() Element
	Kind() ElementKind
}

// Element holds the fields common to signals, functions, members and
// enumerations. Its description has directive lines removed.
type Element struct {
	Signature   string   `json:"signature"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Metadata    Metadata `json:"metadata"`
}

func newElement(signature, name, description string) Element {
	desc, meta := ExtractMetadata(description)
	return Element{
		Signature:   signature,
		Name:        name,
		Description: strings.Trim(desc, "\n"),
		Metadata:    meta,
	}
}

// Base returns the common element fields.
func (e Element) Base() Element { return e }

// Signal is a class signal.
type Signal struct {
	Element
	Arguments []string `json:"arguments"`
}

func (Signal) Kind() ElementKind { return KindSignal }

// NewSignal builds a Signal from its raw record.
func NewSignal(raw types.RawSignal) Signal {
	return Signal{
		Element:   newElement(raw.Signature, raw.Name, raw.Description),
		Arguments: raw.Arguments,
	}
}

// Member is a property or member variable.
type Member struct {
	Element
	Type         string `json:"type"`
	DefaultValue string `json:"default_value"`
	IsExported   bool   `json:"is_exported"`
	Setter       string `json:"setter"`
	Getter       string `json:"getter"`
}

func (Member) Kind() ElementKind { return KindMember }

// NewMember builds a Member from its raw record.
func NewMember(raw types.RawMember) Member {
	return Member{
		Element:      newElement(raw.Signature, raw.Name, raw.Description),
		Type:         raw.DataType,
		DefaultValue: raw.DefaultValue,
		IsExported:   raw.Export,
		Setter:       raw.Setter,
		Getter:       raw.Getter,
	}
}

// Summarize returns the type and name, the columns of a member summary table.
func (m Member) Summarize() []string {
	return []string{m.Type, m.Name}
}

// Enumeration is a named group of constants.
type Enumeration struct {
	Element
	Values map[string]any `json:"values"`
}

func (Enumeration) Kind() ElementKind { return KindEnumeration }

// NewEnumeration builds an Enumeration from a Dictionary constant.
func NewEnumeration(raw types.RawConstant) Enumeration {
	return Enumeration{
		Element: newElement(raw.Signature, raw.Name, raw.Description),
		Values:  raw.Values,
	}
}

// SortedNames returns the constant names in lexical order.
func (e Enumeration) SortedNames() []string {
	names := make([]string, 0, len(e.Values))
	for name := range e.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectEnumerations keeps the constants that represent enum groups. Scalar
// constants are not part of the model.
func SelectEnumerations(raw []types.RawConstant) []Enumeration {
	var enums []Enumeration
	for _, c := range raw {
		if c.DataType == types.DictionaryType {
			enums = append(enums, NewEnumeration(c))
		}
	}
	return enums
}

// FilterMembers drops private members.
func FilterMembers(raw []types.RawMember) []Member {
	var members []Member
	for _, m := range raw {
		if strings.HasPrefix(m.Name, PrivatePrefix) {
			continue
		}
		members = append(members, NewMember(m))
	}
	return members
}
