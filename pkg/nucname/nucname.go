// Package nucname converts between nuclide identifiers and their textual names.
//
// Identifiers use the ZZZAAASSSS layout: Z*10^7 + A*10^4 + S, where Z is the
// atomic number, A the mass number (0 for a natural element) and S the
// excitation state. H-1 is 10010000, O-16 is 80160000 and natural iron is
// 260000000.
package nucname

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNuclide is returned when a nuclide cannot be parsed or is out of range.
var ErrInvalidNuclide = errors.New("invalid nuclide")

// ID is a nuclide identifier in ZZZAAASSSS form.
type ID int

// New builds an ID from atomic number, mass number and excitation state.
func New(z, a, s int) ID {
	return ID(z*10_000_000 + a*10_000 + s)
}

// Z returns the atomic number.
func (id ID) Z() int { return int(id) / 10_000_000 }

// A returns the mass number. Zero denotes a natural element.
func (id ID) A() int { return int(id) / 10_000 % 1_000 }

// State returns the excitation state.
func (id ID) State() int { return int(id) % 10_000 }

// Valid reports whether the identifier refers to a known element with a
// plausible mass number.
func (id ID) Valid() bool {
	if id <= 0 {
		return false
	}
	z, a, s := id.Z(), id.A(), id.State()
	if z < 1 || z > MaxZ {
		return false
	}
	if a == 0 {
		return s == 0
	}
	return a >= z
}

// Name returns the compact name: "H1", "U235M", "Am242M2", or the bare
// symbol for a natural element.
func (id ID) Name() string {
	sym, ok := Symbol(id.Z())
	if !ok {
		return strconv.Itoa(int(id))
	}
	if id.A() == 0 {
		return sym
	}
	name := sym + strconv.Itoa(id.A())
	switch s := id.State(); {
	case s == 1:
		name += "M"
	case s > 1:
		name += "M" + strconv.Itoa(s)
	}
	return name
}

// OpenMC returns the name used by OpenMC input decks: "H1", "Am242_m1", and
// "Fe0" for a natural element.
func (id ID) OpenMC() string {
	sym, ok := Symbol(id.Z())
	if !ok {
		return strconv.Itoa(int(id))
	}
	name := sym + strconv.Itoa(id.A())
	if s := id.State(); s > 0 && id.A() > 0 {
		name += "_m" + strconv.Itoa(s)
	}
	return name
}

func (id ID) String() string { return id.Name() }

var nameRE = regexp.MustCompile(`^([A-Za-z]{1,2})-?([0-9]{0,3})(?:_?[mM]([0-9]?))?$`)

// Parse reads a nuclide from an integer identifier ("10010000") or a name
// ("H1", "H-1", "fe", "U235m", "Am242_m1").
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty name", ErrInvalidNuclide)
	}

	if n, err := strconv.Atoi(s); err == nil {
		id := ID(n)
		if !id.Valid() {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNuclide, s)
		}
		return id, nil
	}

	m := nameRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNuclide, s)
	}
	z, ok := Znum(m[1])
	if !ok {
		return 0, fmt.Errorf("%w: unknown element %q", ErrInvalidNuclide, m[1])
	}

	a := 0
	if m[2] != "" {
		a, _ = strconv.Atoi(m[2])
	}

	st := 0
	if strings.ContainsAny(s[len(m[1]):], "mM") {
		if a == 0 {
			return 0, fmt.Errorf("%w: excited state without mass number in %q", ErrInvalidNuclide, s)
		}
		st = 1
		if m[3] != "" {
			st, _ = strconv.Atoi(m[3])
		}
	}

	id := New(z, a, st)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNuclide, s)
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures and
// package-level tables.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
