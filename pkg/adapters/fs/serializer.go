package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/nucname"
)

// Serializer defines how to read and write a stream based library format.
type Serializer interface {
	// Parse reads the materials stored under datapath.
	Parse(r io.Reader, datapath string) (*core.Library, error)
	// Serialize converts lib to bytes, storing it under datapath.
	Serialize(lib *core.Library, datapath string) ([]byte, error)
}

// FileFormat defines a library format that needs direct file access (e.g. HDF5).
type FileFormat interface {
	Read(path, datapath string) (*core.Library, error)
	Write(path, datapath string, lib *core.Library) error
}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json":    NewJSONSerializer(),
		".yaml":    NewYAMLSerializer(),
		".yml":     NewYAMLSerializer(),
		".msgpack": NewMsgpackSerializer(),
		".mpk":     NewMsgpackSerializer(),
	}
}

// groupKey maps a datapath ("/materials") to its document key ("materials").
func groupKey(datapath string) string {
	return strings.Trim(datapath, "/")
}

// materialDoc is the document form of a material shared by JSON and YAML.
type materialDoc struct {
	Mass             float64           `json:"mass" yaml:"mass"`
	Density          float64           `json:"density" yaml:"density"`
	AtomsPerMolecule float64           `json:"atoms_per_molecule" yaml:"atoms_per_molecule"`
	Metadata         core.Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Comp             *core.Composition `json:"comp" yaml:"comp"`
}

func toDocs(lib *core.Library) []materialDoc {
	docs := make([]materialDoc, 0, lib.Len())
	for _, m := range lib.All() {
		docs = append(docs, materialDoc{
			Mass:             m.Mass,
			Density:          m.Density,
			AtomsPerMolecule: m.AtomsPerMolecule,
			Metadata:         m.Metadata,
			Comp:             m.Comp,
		})
	}
	return docs
}

func fromDocs(docs []materialDoc) *core.Library {
	lib := core.NewLibrary()
	for _, d := range docs {
		lib.Add(&core.Material{
			Comp:             d.Comp,
			Mass:             d.Mass,
			Density:          d.Density,
			AtomsPerMolecule: d.AtomsPerMolecule,
			Metadata:         d.Metadata,
		})
	}
	return lib
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON library files.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader, datapath string) (*core.Library, error) {
	var groups map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	raw, ok := groups[groupKey(datapath)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatapathNotFound, datapath)
	}

	var docs []materialDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("invalid json under %s: %w", datapath, err)
	}
	return fromDocs(docs), nil
}

func (s *JSONSerializer) Serialize(lib *core.Library, datapath string) ([]byte, error) {
	payload := map[string][]materialDoc{groupKey(datapath): toDocs(lib)}
	return json.MarshalIndent(payload, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML library files.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader, datapath string) (*core.Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var groups map[string]yaml.Node
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	node, ok := groups[groupKey(datapath)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatapathNotFound, datapath)
	}

	var docs []materialDoc
	if err := node.Decode(&docs); err != nil {
		return nil, fmt.Errorf("invalid yaml under %s: %w", datapath, err)
	}
	return fromDocs(docs), nil
}

func (s *YAMLSerializer) Serialize(lib *core.Library, datapath string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string][]materialDoc{groupKey(datapath): toDocs(lib)}); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Msgpack Serializer ---

// MsgpackSerializer stores libraries as compact binary snapshots.
type MsgpackSerializer struct{}

// NewMsgpackSerializer creates a new msgpack serializer.
func NewMsgpackSerializer() *MsgpackSerializer {
	return &MsgpackSerializer{}
}

const msgpackVersion = 1

type packedMaterial struct {
	Mass             float64        `msgpack:"mass"`
	Density          float64        `msgpack:"density"`
	AtomsPerMolecule float64        `msgpack:"atoms_per_molecule"`
	Metadata         map[string]any `msgpack:"metadata"`
	Nuclides         []int          `msgpack:"nuclides"`
	Fractions        []float64      `msgpack:"fractions"`
}

type packedLibrary struct {
	Version int                         `msgpack:"version"`
	Groups  map[string][]packedMaterial `msgpack:"groups"`
}

func (s *MsgpackSerializer) Parse(r io.Reader, datapath string) (*core.Library, error) {
	var payload packedLibrary
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid msgpack: %w", err)
	}
	if payload.Version != msgpackVersion {
		return nil, fmt.Errorf("unsupported msgpack library version %d", payload.Version)
	}

	packed, ok := payload.Groups[groupKey(datapath)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatapathNotFound, datapath)
	}

	lib := core.NewLibrary()
	for i, p := range packed {
		if len(p.Nuclides) != len(p.Fractions) {
			return nil, fmt.Errorf("material %d: %d nuclides but %d fractions", i, len(p.Nuclides), len(p.Fractions))
		}
		comp := core.NewComposition(len(p.Nuclides))
		for j, n := range p.Nuclides {
			id := nucname.ID(n)
			if !id.Valid() {
				return nil, fmt.Errorf("material %d: %w: %d", i, nucname.ErrInvalidNuclide, n)
			}
			comp.Set(id, p.Fractions[j])
		}
		lib.Add(&core.Material{
			Comp:             comp,
			Mass:             p.Mass,
			Density:          p.Density,
			AtomsPerMolecule: p.AtomsPerMolecule,
			Metadata:         core.Metadata(p.Metadata),
		})
	}
	return lib, nil
}

func (s *MsgpackSerializer) Serialize(lib *core.Library, datapath string) ([]byte, error) {
	packed := make([]packedMaterial, 0, lib.Len())
	for _, m := range lib.All() {
		p := packedMaterial{
			Mass:             m.Mass,
			Density:          m.Density,
			AtomsPerMolecule: m.AtomsPerMolecule,
			Metadata:         m.Metadata,
		}
		for id, f := range m.Comp.All() {
			p.Nuclides = append(p.Nuclides, int(id))
			p.Fractions = append(p.Fractions, f)
		}
		packed = append(packed, p)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	err := enc.Encode(packedLibrary{
		Version: msgpackVersion,
		Groups:  map[string][]packedMaterial{groupKey(datapath): packed},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
