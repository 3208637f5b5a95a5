package perf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownFamily is returned when parsing a family name that does not exist.
var ErrUnknownFamily = errors.New("unknown metric family")

// Family is a group of metrics that can be switched on or off as a whole.
type Family uint8

const (
	FamilyCache Family = iota
	FamilyOpcode
	FamilyExecution
	FamilyTpsGas

	familyCount
)

var familyNames = [familyCount]string{
	FamilyCache:     "cache",
	FamilyOpcode:    "opcode",
	FamilyExecution: "execution",
	FamilyTpsGas:    "tps_gas",
}

func (f Family) String() string {
	if f < familyCount {
		return familyNames[f]
	}
	return fmt.Sprintf("family(%d)", uint8(f))
}

// AllFamilies lists every family in declaration order.
func AllFamilies() []Family {
	return []Family{FamilyCache, FamilyOpcode, FamilyExecution, FamilyTpsGas}
}

// Families is a set of enabled families.
type Families uint8

// AllEnabled has every family switched on.
const AllEnabled = Families(1<<familyCount - 1)

// NewFamilies builds a set from the given families.
func NewFamilies(fs ...Family) Families {
	var set Families
	for _, f := range fs {
		set = set.With(f)
	}
	return set
}

// Has reports whether f is enabled.
func (s Families) Has(f Family) bool {
	return s&(1<<f) != 0
}

// With returns the set with f enabled.
func (s Families) With(f Family) Families {
	return s | 1<<f
}

// Without returns the set with f disabled.
func (s Families) Without(f Family) Families {
	return s &^ (1 << f)
}

// List returns the enabled families in declaration order.
func (s Families) List() []Family {
	var out []Family
	for _, f := range AllFamilies() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Families) String() string {
	names := make([]string, 0, familyCount)
	for _, f := range s.List() {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}

// ParseFamily resolves a single family name.
func ParseFamily(name string) (Family, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range familyNames {
		if n == name {
			return Family(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownFamily, "%q", name)
}

// ParseFamilies parses a comma separated list such as "cache,opcode". The
// special value "all" enables every family and an empty string none.
func ParseFamilies(list string) (Families, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return 0, nil
	}
	if strings.EqualFold(list, "all") {
		return AllEnabled, nil
	}
	var set Families
	for _, part := range strings.Split(list, ",") {
		f, err := ParseFamily(part)
		if err != nil {
			return 0, err
		}
		set = set.With(f)
	}
	return set, nil
}
