package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Define is a single macro definition.
type Define struct {
	Name  string
	Value string
}

// Defines is an ordered macro table. Writes follow "last writer wins": setting
// a name that is already present replaces its value in place.
type Defines struct {
	entries []Define
	index   map[string]int
}

// Set defines name as value.
func (d *Defines) Set(name, value string) {
	if i, ok := d.index[name]; ok {
		d.entries[i].Value = value
		return
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, Define{Name: name, Value: value})
}

// Undef removes name and reports whether it was defined.
func (d *Defines) Undef(name string) bool {
	i, ok := d.index[name]
	if !ok {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, name)
	for j := i; j < len(d.entries); j++ {
		d.index[d.entries[j].Name] = j
	}
	return true
}

// Lookup returns the value of name.
func (d *Defines) Lookup(name string) (string, bool) {
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.entries[i].Value, true
}

// Len returns the number of defined names.
func (d *Defines) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the table in definition order.
func (d *Defines) Entries() []Define {
	return append([]Define(nil), d.entries...)
}

// Merge sets every entry of other, in its order.
func (d *Defines) Merge(other *Defines) {
	for _, e := range other.entries {
		d.Set(e.Name, e.Value)
	}
}

// Subset returns a new table holding the given names that are defined in d,
// in the order the names are given.
func (d *Defines) Subset(names ...string) *Defines {
	sub := &Defines{}
	for _, name := range names {
		if v, ok := d.Lookup(name); ok {
			sub.Set(name, v)
		}
	}
	return sub
}

// Apply writes every framework flag of f to the table, overriding existing
// definitions. It returns the previous definitions that held a different
// value. Applying the same flags twice leaves the table unchanged.
func (d *Defines) Apply(f Flags) (replaced []Define) {
	for _, r := range flagRules {
		v, _ := f.Get(r.Flag)
		value := boolValue(v)
		if old, ok := d.Lookup(r.Flag); ok && old != value {
			replaced = append(replaced, Define{Name: r.Flag, Value: old})
		}
		d.Set(r.Flag, value)
	}
	return replaced
}

// CompilerArgs returns the table as -DNAME=VALUE arguments.
func (d *Defines) CompilerArgs() []string {
	args := make([]string, len(d.entries))
	for i, e := range d.entries {
		if e.Value == "" {
			args[i] = "-D" + e.Name
		} else {
			args[i] = "-D" + e.Name + "=" + e.Value
		}
	}
	return args
}

// WriteCMake writes the table as CMake add_compile_definitions commands.
func (d *Defines) WriteCMake(w io.Writer) error {
	var b strings.Builder
	for _, e := range d.entries {
		fmt.Fprintf(&b, "add_compile_definitions(%s=%s)\n", e.Name, e.Value)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// MarshalYAML encodes the table as a mapping that keeps definition order.
func (d *Defines) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Value},
		)
	}
	return node, nil
}
