package model

import (
	"sort"
	"sync"

	"github.com/duyhunghd6/gdref-cli/internal/types"
)

// GroupKey selects the class attribute used by Collection.GroupBy.
type GroupKey string

const (
	GroupCategory GroupKey = "category"
)

var groupAccessors = map[GroupKey]func(*Class) string{
	GroupCategory: (*Class).Category,
}

// ParseGroupKey returns the GroupKey named s.
func ParseGroupKey(s string) (GroupKey, bool) {
	key := GroupKey(s)
	_, ok := groupAccessors[key]
	return key, ok
}

// ClassIndex maps class names to their symbol sets.
type ClassIndex map[string]SymbolSet

// Has reports whether class exists and defines symbol.
func (idx ClassIndex) Has(class, symbol string) bool {
	return idx[class].Has(symbol)
}

// Collection is the ordered set of classes of a reflection dump.
type Collection struct {
	classes []*Class

	indexOnce sync.Once
	index     ClassIndex

	mu     sync.Mutex
	groups map[GroupKey][][]*Class
}

// NewCollection builds one Class per raw record, in input order.
func NewCollection(raw []types.RawClass) *Collection {
	classes := make([]*Class, 0, len(raw))
	for _, r := range raw {
		classes = append(classes, NewClass(r))
	}
	return newCollection(classes)
}

// DecodeCollection decodes a JSON array of class records and builds the
// collection. Records without a name are dropped.
func DecodeCollection(data []byte) (*Collection, error) {
	raw, err := types.DecodeClasses(data)
	if err != nil {
		return nil, err
	}
	return NewCollection(raw), nil
}

func newCollection(classes []*Class) *Collection {
	return &Collection{classes: classes}
}

// Classes returns the classes in input order.
func (c *Collection) Classes() []*Class {
	return c.classes
}

// Len returns the number of classes.
func (c *Collection) Len() int {
	return len(c.classes)
}

// Names returns the class names in input order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.classes))
	for _, class := range c.classes {
		names = append(names, class.Name)
	}
	return names
}

// Get returns the first class named name.
func (c *Collection) Get(name string) (*Class, bool) {
	for i := len(c.classes) - 1; i >= 0; i-- {
		if c.classes[i].Name == name {
			return c.classes[i], true
		}
	}
	return nil, false
}

// Filter returns a new collection holding the classes for which keep returns
// true. Classes are shared, not copied.
func (c *Collection) Filter(keep func(*Class) bool) *Collection {
	var classes []*Class
	for _, class := range c.classes {
		if keep(class) {
			classes = append(classes, class)
		}
	}
	return newCollection(classes)
}

// GroupBy stable-sorts the classes by key and splits them into runs sharing
// the same value. It returns nil for an empty collection or an unknown key.
func (c *Collection) GroupBy(key GroupKey) [][]*Class {
	get, ok := groupAccessors[key]
	if !ok || len(c.classes) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if groups, ok := c.groups[key]; ok {
		return groups
	}

	sorted := make([]*Class, len(c.classes))
	copy(sorted, c.classes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return get(sorted[i]) < get(sorted[j])
	})

	var groups [][]*Class
	for i, class := range sorted {
		if i == 0 || get(class) != get(sorted[i-1]) {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], class)
	}

	if c.groups == nil {
		c.groups = make(map[GroupKey][][]*Class)
	}
	c.groups[key] = groups
	return groups
}

// GroupedByCategory groups the classes by their category metadata.
func (c *Collection) GroupedByCategory() [][]*Class {
	return c.GroupBy(GroupCategory)
}

// ClassIndex returns the symbol set of every class, keyed by class name.
// When two classes share a name the later one wins.
func (c *Collection) ClassIndex() ClassIndex {
	c.indexOnce.Do(func() {
		c.index = make(ClassIndex, len(c.classes))
		for _, class := range c.classes {
			c.index[class.Name] = class.Symbols()
		}
	})
	return c.index
}
