// Package xref resolves cross-references between documented classes using
// the class index of a collection.
package xref

import (
	"regexp"
	"strings"

	"github.com/duyhunghd6/gdref-cli/internal/graph"
	"github.com/duyhunghd6/gdref-cli/internal/model"
)

var referencePattern = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?)\]`)

// Target is a parsed reference. Class is empty for a bare name.
type Target struct {
	Class  string `json:"class,omitempty"`
	Symbol string `json:"symbol"`
}

func (t Target) String() string {
	if t.Class == "" {
		return t.Symbol
	}
	return t.Class + "." + t.Symbol
}

// ParseTarget splits "Class.symbol" at the first dot.
func ParseTarget(ref string) Target {
	class, symbol, ok := strings.Cut(ref, ".")
	if !ok {
		return Target{Symbol: ref}
	}
	return Target{Class: class, Symbol: symbol}
}

// FindReferences returns the bracketed references in text, in order.
func FindReferences(text string) []string {
	var refs []string
	for _, m := range referencePattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, m[1])
	}
	return refs
}

// Link is a resolved reference. Symbol is empty for a link to a class page.
// Owner is the class that defines Symbol, which differs from Class when the
// symbol is inherited.
type Link struct {
	Class     string `json:"class"`
	Symbol    string `json:"symbol,omitempty"`
	Owner     string `json:"owner"`
	Inherited bool   `json:"inherited,omitempty"`
}

// Unresolved is a reference that matches no class or symbol.
type Unresolved struct {
	Class     string `json:"class"`
	Element   string `json:"element,omitempty"`
	Reference string `json:"reference"`
}

// Resolver answers link queries against a class index.
type Resolver struct {
	index model.ClassIndex
	graph *graph.Graph
}

// NewResolver creates a resolver over classes. g may be nil, in which case
// inherited symbols are not resolved.
func NewResolver(classes *model.Collection, g *graph.Graph) *Resolver {
	return &Resolver{index: classes.ClassIndex(), graph: g}
}

// Resolve resolves ref as written in the documentation of class from. A bare
// name links to the class of that name if one exists, otherwise to a symbol
// of from.
func (r *Resolver) Resolve(ref, from string) (Link, bool) {
	t := ParseTarget(ref)
	if t.Class == "" {
		if _, ok := r.index[t.Symbol]; ok {
			return Link{Class: t.Symbol, Owner: t.Symbol}, true
		}
		t.Class = from
	}
	if _, ok := r.index[t.Class]; !ok {
		return Link{}, false
	}

	owner, ok := r.owner(t.Class, t.Symbol)
	if !ok {
		return Link{}, false
	}
	return Link{Class: t.Class, Symbol: t.Symbol, Owner: owner, Inherited: owner != t.Class}, true
}

func (r *Resolver) owner(class, symbol string) (string, bool) {
	if r.index.Has(class, symbol) {
		return class, true
	}
	if r.graph == nil {
		return "", false
	}
	for _, ancestor := range r.graph.Ancestors(class) {
		if r.index.Has(ancestor, symbol) {
			return ancestor, true
		}
	}
	return "", false
}

// Check reports the references in the descriptions of class and its elements
// that do not resolve.
func (r *Resolver) Check(class *model.Class) []Unresolved {
	var out []Unresolved
	for _, ref := range FindReferences(class.Description) {
		if _, ok := r.Resolve(ref, class.Name); !ok {
			out = append(out, Unresolved{Class: class.Name, Reference: ref})
		}
	}
	for _, el := range class.Elements() {
		base := el.Base()
		for _, ref := range FindReferences(base.Description) {
			if _, ok := r.Resolve(ref, class.Name); !ok {
				out = append(out, Unresolved{Class: class.Name, Element: base.Name, Reference: ref})
			}
		}
	}
	return out
}

// CheckAll runs Check on every class of the collection.
func (r *Resolver) CheckAll(classes *model.Collection) []Unresolved {
	var out []Unresolved
	for _, class := range classes.Classes() {
		out = append(out, r.Check(class)...)
	}
	return out
}
