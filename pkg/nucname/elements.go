package nucname

import "strings"

// symbols is indexed by atomic number. Index 0 is unused.
var symbols = [...]string{
	"",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// MaxZ is the highest atomic number known to the element table.
const MaxZ = len(symbols) - 1

var znums = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		if z == 0 {
			continue
		}
		m[strings.ToLower(s)] = z
	}
	return m
}()

// Symbol returns the chemical symbol for atomic number z.
func Symbol(z int) (string, bool) {
	if z < 1 || z > MaxZ {
		return "", false
	}
	return symbols[z], true
}

// Znum returns the atomic number for a chemical symbol. Matching is
// case-insensitive.
func Znum(symbol string) (int, bool) {
	z, ok := znums[strings.ToLower(symbol)]
	return z, ok
}
