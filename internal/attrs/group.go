// Package attrs models the control surface as a named group of text
// attributes, each with show and store callbacks in the style of sysfs.
package attrs

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoAttribute is returned for a name the group does not define.
var ErrNoAttribute = errors.New("no such attribute")

// Attribute is a single readable/writable text value.
type Attribute struct {
	Name string
	// Show returns the current value without a trailing newline.
	Show func() string
	// Store applies value and reports whether it was accepted.
	// Rejected values are not an error: the previous value simply stays.
	Store func(value string) bool
}

// Group is an ordered set of attributes under a common name.
type Group struct {
	name    string
	attrs   map[string]Attribute
	order   []string
	aliases map[string]string
}

// NewGroup creates a group from attrs. Names must be unique.
func NewGroup(name string, attrs ...Attribute) *Group {
	g := &Group{
		name:    name,
		attrs:   make(map[string]Attribute, len(attrs)),
		aliases: make(map[string]string),
	}
	for _, a := range attrs {
		if _, dup := g.attrs[a.Name]; dup {
			panic(fmt.Sprintf("attrs: duplicate attribute %q in group %q", a.Name, name))
		}
		g.attrs[a.Name] = a
		g.order = append(g.order, a.Name)
	}
	return g
}

// Alias makes alias resolve to the attribute target. Aliases are not listed by Names.
func (g *Group) Alias(alias, target string) {
	g.aliases[alias] = target
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Names returns the attribute names in declaration order.
func (g *Group) Names() []string {
	return slices.Clone(g.order)
}

// Has reports whether name (or an alias) is defined.
func (g *Group) Has(name string) bool {
	_, ok := g.lookup(name)
	return ok
}

// Show returns the current value of name.
func (g *Group) Show(name string) (string, error) {
	a, ok := g.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNoAttribute, g.name, name)
	}
	return a.Show(), nil
}

// Store writes value to name and reports whether it was applied.
// The only error is an unknown attribute.
func (g *Group) Store(name, value string) (bool, error) {
	a, ok := g.lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %s/%s", ErrNoAttribute, g.name, name)
	}
	return a.Store(value), nil
}

// Snapshot returns every attribute's current value keyed by name.
func (g *Group) Snapshot() map[string]string {
	out := make(map[string]string, len(g.order))
	for _, name := range g.order {
		out[name] = g.attrs[name].Show()
	}
	return out
}

func (g *Group) lookup(name string) (Attribute, bool) {
	if target, ok := g.aliases[name]; ok {
		name = target
	}
	a, ok := g.attrs[name]
	return a, ok
}
