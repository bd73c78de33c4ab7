package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/uwuw/pkg/nucname"
)

// Composition maps nuclides to their fractional contribution within a
// material. Iteration follows insertion order; the zero value is empty and
// ready to use.
type Composition struct {
	order []nucname.ID
	fracs map[nucname.ID]float64
}

// NewComposition returns an empty composition with room for n nuclides.
func NewComposition(n int) *Composition {
	return &Composition{
		order: make([]nucname.ID, 0, n),
		fracs: make(map[nucname.ID]float64, n),
	}
}

// Set assigns the fraction of a nuclide. An existing entry keeps its position.
func (c *Composition) Set(id nucname.ID, frac float64) {
	if c.fracs == nil {
		c.fracs = make(map[nucname.ID]float64)
	}
	if _, ok := c.fracs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.fracs[id] = frac
}

// Add accumulates frac onto the current fraction of a nuclide.
func (c *Composition) Add(id nucname.ID, frac float64) {
	cur, _ := c.Get(id)
	c.Set(id, cur+frac)
}

// Get returns the fraction stored for a nuclide.
func (c *Composition) Get(id nucname.ID) (float64, bool) {
	if c == nil {
		return 0, false
	}
	f, ok := c.fracs[id]
	return f, ok
}

// Len returns the number of distinct nuclides.
func (c *Composition) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// All iterates nuclides and fractions in insertion order.
func (c *Composition) All() iter.Seq2[nucname.ID, float64] {
	return func(yield func(nucname.ID, float64) bool) {
		if c == nil {
			return
		}
		for _, id := range c.order {
			if !yield(id, c.fracs[id]) {
				return
			}
		}
	}
}

// Nuclides returns the nuclides in insertion order.
func (c *Composition) Nuclides() []nucname.ID {
	if c == nil {
		return nil
	}
	out := make([]nucname.ID, len(c.order))
	copy(out, c.order)
	return out
}

// Total returns the sum of all fractions.
func (c *Composition) Total() float64 {
	var sum float64
	for _, f := range c.All() {
		sum += f
	}
	return sum
}

// Normalized returns a copy whose fractions sum to one. A composition with a
// zero total is copied unchanged.
func (c *Composition) Normalized() *Composition {
	out := c.Clone()
	total := out.Total()
	if total == 0 {
		return out
	}
	for _, id := range out.order {
		out.fracs[id] /= total
	}
	return out
}

// Clone returns a deep copy.
func (c *Composition) Clone() *Composition {
	out := NewComposition(c.Len())
	for id, f := range c.All() {
		out.Set(id, f)
	}
	return out
}

// MarshalJSON writes an object keyed by nuclide name, preserving order.
func (c *Composition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for id, f := range c.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(id.Name())
		val, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("nuclide %s: %w", id.Name(), err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by nuclide name or identifier,
// preserving document order.
func (c *Composition) UnmarshalJSON(data []byte) error {
	*c = Composition{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("composition must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		id, err := nucname.Parse(key)
		if err != nil {
			return err
		}
		var f float64
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("nuclide %s: %w", key, err)
		}
		c.Set(id, f)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML emits an ordered mapping keyed by nuclide name.
func (c *Composition) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for id, f := range c.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: id.Name()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(f)},
		)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping keyed by nuclide name or identifier.
func (c *Composition) UnmarshalYAML(value *yaml.Node) error {
	*c = Composition{}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: composition must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		id, err := nucname.Parse(k.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", k.Line, err)
		}
		var f float64
		if err := v.Decode(&f); err != nil {
			return fmt.Errorf("line %d: nuclide %s: %w", v.Line, k.Value, err)
		}
		c.Set(id, f)
	}
	return nil
}
