// Package registry maps the unit identifier strings used by data-source
// schemas to constructors. The vocabulary is fixed at construction; a
// Registry is read-only afterwards and safe for concurrent lookups.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/levity-measure/internal/units"
)

// compoundIdentifiers are the fused or slash-form compound strings that
// schemas may name directly.
var compoundIdentifiers = []string{"m/s", "mph", "kph", "km/h", "kn", "mm/hr", "in/hr", "kg/m3"}

// Registry resolves identifiers to constructors.
type Registry struct {
	constructors map[string]Constructor
	specials     map[string]CompoundSpec
}

// New builds the registry with the full vocabulary.
func New() *Registry {
	r := &Registry{
		constructors: make(map[string]Constructor),
		specials:     make(map[string]CompoundSpec, len(specials)),
	}

	for _, u := range units.All() {
		r.constructors[string(u)] = Constructor{Identifier: string(u), Kind: KindNumeric, Unit: u}
	}
	for _, id := range []string{formatEpoch, formatEpochMs, formatDatetime, formatDate} {
		r.constructors[id] = Constructor{Identifier: id, Kind: KindDatetime}
	}
	r.constructors["timezone"] = Constructor{Identifier: "timezone", Kind: KindTimezone}
	r.constructors["bool"] = Constructor{Identifier: "bool", Kind: KindBoolean}

	for _, id := range compoundIdentifiers {
		num, den, err := units.ParseCompoundUnit(id)
		if err != nil {
			panic(fmt.Sprintf("registry: compound identifier %q: %v", id, err))
		}
		r.constructors[id] = Constructor{Identifier: id, Kind: KindCompound, Numerator: num, Denominator: den}
	}

	for _, s := range specials {
		r.specials[s.Name] = s
	}
	return r
}

// Resolve returns the constructor for id. Identifiers under the special
// namespace ("special.wind") resolve to unbound compound constructors.
func (r *Registry) Resolve(id string) (Constructor, error) {
	if name, ok := strings.CutPrefix(id, SpecialNamespace+"."); ok {
		spec, err := r.Special(name)
		if err != nil {
			return Constructor{}, &units.UnknownUnitError{Identifier: id}
		}
		return Constructor{Identifier: id, Kind: KindCompound, Special: &spec}, nil
	}
	c, ok := r.constructors[id]
	if !ok {
		return Constructor{}, &units.UnknownUnitError{Identifier: id}
	}
	return c, nil
}

// ResolvePair resolves a numerator/denominator identifier pair into a bound
// compound constructor. When kind names a special compound the pair must
// match its families.
func (r *Registry) ResolvePair(kind, num, den string) (Constructor, error) {
	n, err := r.Resolve(num)
	if err != nil {
		return Constructor{}, err
	}
	d, err := r.Resolve(den)
	if err != nil {
		return Constructor{}, err
	}
	if n.Kind != KindNumeric || d.Kind != KindNumeric {
		return Constructor{}, fmt.Errorf("compound %s/%s: both sides must be numeric units", num, den)
	}

	c := Constructor{Identifier: units.CompoundUnit(n.Unit, d.Unit), Kind: KindCompound}
	if spec, ok := r.specials[kind]; ok {
		c.Special = &spec
	}
	return c.Bind(n.Unit, d.Unit)
}

// Special looks up a compound kind by semantic name.
func (r *Registry) Special(name string) (CompoundSpec, error) {
	s, ok := r.specials[name]
	if !ok {
		return CompoundSpec{}, &units.UnknownUnitError{Identifier: SpecialNamespace + "." + name}
	}
	return s, nil
}

// IsSpecial reports whether name is a special compound kind.
func (r *Registry) IsSpecial(name string) bool {
	_, ok := r.specials[name]
	return ok
}

// Vocabulary lists every plain identifier, sorted.
func (r *Registry) Vocabulary() []string {
	out := make([]string, 0, len(r.constructors))
	for id := range r.constructors {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SpecialNames lists the special compound kinds, sorted.
func (r *Registry) SpecialNames() []string {
	out := make([]string, 0, len(r.specials))
	for name := range r.specials {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
