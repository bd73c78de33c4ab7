package core

import (
	"fmt"
	"iter"
	"strconv"
)

// Library is an ordered collection of materials keyed by name.
// Iteration follows insertion order. Names are unique: adding a material
// whose name is already present replaces that record in place.
type Library struct {
	mats  []*Material
	index map[string]int
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{index: make(map[string]int)}
}

// Add stores a copy of m and returns the stored record.
// A material without a name is named "m<N>" and one without a material number
// is numbered N, where N starts at its 1-based position and skips values
// already taken.
func (l *Library) Add(m *Material) *Material {
	if l.index == nil {
		l.index = make(map[string]int)
	}

	mat := m.Clone()
	if mat.Metadata == nil {
		mat.Metadata = make(Metadata)
	}
	if mat.Comp == nil {
		mat.Comp = NewComposition(0)
	}

	name := mat.Name()
	if name == "" {
		n := len(l.mats) + 1
		for {
			name = fmt.Sprintf("m%d", n)
			if _, taken := l.index[name]; !taken {
				break
			}
			n++
		}
		mat.Metadata[MetaName] = name
	}

	if i, ok := l.index[name]; ok {
		if !mat.Metadata.Has(MetaMatNumber) {
			mat.Metadata[MetaMatNumber] = l.mats[i].Metadata[MetaMatNumber]
		}
		l.mats[i] = mat
		return mat
	}

	if !mat.Metadata.Has(MetaMatNumber) {
		mat.Metadata[MetaMatNumber] = l.nextNumber()
	}
	l.index[name] = len(l.mats)
	l.mats = append(l.mats, mat)
	return mat
}

// numberOwner returns the name of the material carrying mat_number num.
func (l *Library) numberOwner(num string) (string, bool) {
	for _, m := range l.mats {
		if got, ok := m.Metadata.String(MetaMatNumber); ok && got == num {
			return m.Name(), true
		}
	}
	return "", false
}

func (l *Library) nextNumber() int {
	n := len(l.mats) + 1
	for {
		if _, taken := l.numberOwner(strconv.Itoa(n)); !taken {
			return n
		}
		n++
	}
}

// Get returns the material stored under name.
func (l *Library) Get(name string) (*Material, bool) {
	if l == nil {
		return nil, false
	}
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.mats[i], true
}

// Len returns the number of materials.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.mats)
}

// Names returns material names in library order.
func (l *Library) Names() []string {
	out := make([]string, 0, l.Len())
	for _, m := range l.All() {
		out = append(out, m.Name())
	}
	return out
}

// All iterates position and material in library order.
func (l *Library) All() iter.Seq2[int, *Material] {
	return func(yield func(int, *Material) bool) {
		if l == nil {
			return
		}
		for i, m := range l.mats {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Iter returns a forward iterator positioned before the first material.
func (l *Library) Iter() *Iterator {
	return &Iterator{lib: l, pos: -1}
}

// Merge adds every material of other, in order. Same-name records are replaced.
// An incoming material whose mat_number belongs to a differently named
// material is renumbered so ids stay unique.
func (l *Library) Merge(other *Library) {
	for _, m := range other.All() {
		if num, ok := m.Metadata.String(MetaMatNumber); ok {
			if owner, taken := l.numberOwner(num); taken && owner != m.Name() {
				m = m.Clone()
				delete(m.Metadata, MetaMatNumber)
			}
		}
		l.Add(m)
	}
}

// Clone returns a deep copy.
func (l *Library) Clone() *Library {
	out := NewLibrary()
	if l == nil {
		return out
	}
	out.mats = make([]*Material, len(l.mats))
	for i, m := range l.mats {
		out.mats[i] = m.Clone()
		out.index[m.Name()] = i
	}
	return out
}

// Iterator walks a library forward. Call Next before the first Material.
type Iterator struct {
	lib *Library
	pos int
}

// Next advances the iterator and reports whether a material is available.
func (it *Iterator) Next() bool {
	if it.pos < it.lib.Len() {
		it.pos++
	}
	return it.pos < it.lib.Len()
}

// Material returns the current material, or nil when exhausted.
func (it *Iterator) Material() *Material {
	if it.pos < 0 || it.pos >= it.lib.Len() {
		return nil
	}
	return it.lib.mats[it.pos]
}
