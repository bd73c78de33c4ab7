package core

// Material is a physical material: a normalized mass-fraction composition
// plus bulk properties and free-form metadata.
//
// Density follows the input-deck sign convention: a positive value is in
// g/cc, a negative value is an atom density in atoms/b-cm.
type Material struct {
	Comp             *Composition
	Mass             float64
	Density          float64
	AtomsPerMolecule float64
	Metadata         Metadata
}

// NewMaterial builds a material from raw fractions. A negative mass takes the
// sum of the fractions; the stored composition is always normalized.
func NewMaterial(comp *Composition, mass, density float64) *Material {
	if comp == nil {
		comp = NewComposition(0)
	}
	if mass < 0 {
		mass = comp.Total()
	}
	return &Material{
		Comp:             comp.Normalized(),
		Mass:             mass,
		Density:          density,
		AtomsPerMolecule: -1,
		Metadata:         make(Metadata),
	}
}

// Name returns the "name" metadata, if set.
func (m *Material) Name() string {
	s, _ := m.Metadata.String(MetaName)
	return s
}

// Require returns the textual value of a metadata key or a MissingMetadataError.
func (m *Material) Require(key string) (string, error) {
	v, ok := m.Metadata.String(key)
	if !ok {
		return "", &MissingMetadataError{Key: key, Material: m.Name()}
	}
	return v, nil
}

// Clone returns a deep copy.
func (m *Material) Clone() *Material {
	return &Material{
		Comp:             m.Comp.Clone(),
		Mass:             m.Mass,
		Density:          m.Density,
		AtomsPerMolecule: m.AtomsPerMolecule,
		Metadata:         m.Metadata.Clone(),
	}
}
