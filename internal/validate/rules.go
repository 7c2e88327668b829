package validate

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
)

// kvTolerance is the relative difference below which two voltages are equal.
const kvTolerance = 1e-9

func sameKV(a, b float64) bool {
	return math.Abs(a-b) <= kvTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func rangeOf(r hcl.Range) *hcl.Range {
	if r.Filename == "" && r.Start.Line == 0 {
		return nil
	}
	return &r
}

// checkReferences re-checks every identifier held by the graph, the bay map
// and entity attributes. Each missing identifier is reported once per
// referring place.
func checkReferences(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	seen := make(map[string]bool)
	missing := func(id, where string, rng hcl.Range) {
		key := id + "\x00" + where
		if seen[key] {
			return
		}
		seen[key] = true
		ds = append(ds, diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     CodeUnknownReference,
			Summary:  fmt.Sprintf("%s refers to unknown identifier %q", where, id),
			Subjects: []string{id},
			Range:    rangeOf(rng),
		})
	}

	for _, e := range m.Graph.Edges() {
		for _, id := range [2]string{e.From, e.To} {
			if _, ok := m.Registry.Lookup(id); !ok {
				missing(id, fmt.Sprintf("connection series %d", e.Series+1), e.Range)
			}
		}
	}

	for _, bayID := range m.Bays.Bays() {
		bay, ok := m.Registry.Lookup(bayID)
		if !ok {
			missing(bayID, "bay assignment", hcl.Range{})
		} else if bay.Kind() != entity.KindBay {
			ds = append(ds, newError(CodeReferenceKind, bay,
				fmt.Sprintf("bay assignment target %q is a %s, not a BAY", bayID, bay.Kind()), bayID))
		}
		for _, member := range m.Bays.Members(bayID) {
			if _, ok := m.Registry.Lookup(member); !ok {
				missing(member, fmt.Sprintf("bay %q", bayID), hcl.Range{})
			}
		}
	}

	for _, e := range m.Registry.All() {
		referrer, ok := e.(entity.Referrer)
		if !ok {
			continue
		}
		for _, ref := range referrer.References() {
			target, ok := m.Registry.Lookup(ref.ID)
			if !ok {
				missing(ref.ID, fmt.Sprintf("%s of %q", ref.Attribute, e.ID()), e.Source())
				continue
			}
			// Coupler bus kinds are reported by checkCouplers.
			if e.Kind() == entity.KindBay && target.Kind() != entity.KindBus {
				ds = append(ds, newError(CodeReferenceKind, e,
					fmt.Sprintf("bus of bay %q refers to %q, which is a %s, not a BUS", e.ID(), ref.ID, target.Kind()),
					e.ID(), ref.ID))
			}
		}
	}
	return ds
}

// checkVoltage compares the nominal voltages across every connected pair.
// Pairs touching a transformer are exempt; each mismatching pair is
// reported once however many edges join it.
func checkVoltage(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, p := range m.Graph.Pairs() {
		a, okA := voltaged(m, p.A)
		b, okB := voltaged(m, p.B)
		if !okA || !okB {
			continue
		}
		if sameKV(a.NominalKV(), b.NominalKV()) {
			continue
		}
		d := diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     CodeVoltageMismatch,
			Summary: fmt.Sprintf("voltage mismatch: %s %q is %g kV but connected %s %q is %g kV",
				a.Kind(), a.ID(), a.NominalKV(), b.Kind(), b.ID(), b.NominalKV()),
			Detail:   "Only a transformer may join entities of different nominal voltage.",
			Subjects: []string{a.ID(), b.ID()},
		}
		if edge, ok := m.Graph.EdgeBetween(p.A, p.B); ok {
			d.Range = rangeOf(edge.Range)
		}
		ds = append(ds, d)
	}
	return ds
}

func voltaged(m *Model, id string) (entity.Voltaged, bool) {
	e, ok := m.Registry.Lookup(id)
	if !ok {
		return nil, false
	}
	v, ok := e.(entity.Voltaged)
	return v, ok
}

// checkCurrentRating walks from every line through adjacent switching
// devices, stopping at anything else, and flags devices rated below the
// line's thermal limit.
func checkCurrentRating(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindLine) {
		line := e.(*entity.Line)

		visited := map[string]bool{line.ID(): true}
		queue := []string{line.ID()}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range m.Graph.Neighbors(cur) {
				if visited[next] {
					continue
				}
				visited[next] = true
				n, ok := m.Registry.Lookup(next)
				if !ok {
					continue
				}
				sw, ok := n.(entity.Switching)
				if !ok {
					continue
				}
				queue = append(queue, next)
				if sw.ContinuousRating() < line.ThermalA {
					ds = append(ds, newWarning(CodeCurrentRating, sw,
						fmt.Sprintf("%s %q is rated %g A, below the %g A thermal rating of line %q",
							sw.Kind(), sw.ID(), sw.ContinuousRating(), line.ThermalA, line.ID()),
						sw.ID(), line.ID()))
				}
			}
		}
	}
	return ds
}

// checkIsolated flags entities with no connection and no bay. Buses may
// stand alone, bays are covered by checkBayPopulation and couplers attach
// through their bus references.
func checkIsolated(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.All() {
		switch e.Kind() {
		case entity.KindBus, entity.KindBay, entity.KindCoupler:
			continue
		}
		if m.Graph.Degree(e.ID()) > 0 {
			continue
		}
		if _, inBay := m.Bays.BayOf(e.ID()); inBay {
			continue
		}
		ds = append(ds, newWarning(CodeIsolated, e,
			fmt.Sprintf("%s %q has no connections and belongs to no bay", e.Kind(), e.ID()), e.ID()))
	}
	return ds
}

func checkBayPopulation(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindBay) {
		if len(m.Bays.Members(e.ID())) == 0 {
			ds = append(ds, newWarning(CodeEmptyBay, e, fmt.Sprintf("bay %q has no members", e.ID()), e.ID()))
		}
	}
	return ds
}

func checkCouplers(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindCoupler) {
		c := e.(*entity.Coupler)
		for _, ref := range c.References() {
			target, ok := m.Registry.Lookup(ref.ID)
			if !ok || target.Kind() == entity.KindBus {
				continue
			}
			ds = append(ds, newError(CodeCouplerBus, c,
				fmt.Sprintf("%s of coupler %q must be a BUS, but %q is a %s", ref.Attribute, c.ID(), ref.ID, target.Kind()),
				c.ID(), ref.ID))
		}
		if c.FromBus == c.ToBus {
			ds = append(ds, newError(CodeCouplerSelf, c,
				fmt.Sprintf("coupler %q connects bus %q to itself", c.ID(), c.FromBus), c.ID(), c.FromBus))
		}
	}
	return ds
}

func checkCouplerVoltage(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindCoupler) {
		c := e.(*entity.Coupler)
		for _, ref := range c.References() {
			bus, ok := lookupBus(m, ref.ID)
			if !ok || sameKV(bus.KV, c.KV) {
				continue
			}
			ds = append(ds, newWarning(CodeCouplerVoltage, c,
				fmt.Sprintf("coupler %q is %g kV but its %s %q is %g kV", c.ID(), c.KV, ref.Attribute, bus.ID(), bus.KV),
				c.ID(), bus.ID()))
		}
	}
	return ds
}

func checkBayVoltage(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindBay) {
		bay := e.(*entity.Bay)
		bus, ok := lookupBus(m, bay.Bus)
		if !ok || sameKV(bus.KV, bay.KV) {
			continue
		}
		ds = append(ds, newWarning(CodeBayVoltage, bay,
			fmt.Sprintf("bay %q is %g kV but its bus %q is %g kV", bay.ID(), bay.KV, bus.ID(), bus.KV),
			bay.ID(), bus.ID()))
	}
	return ds
}

// checkBreakerUsage flags breakers placed in a bay but left out of every
// connection. Breakers with no bay either are reported by checkIsolated.
func checkBreakerUsage(m *Model) diag.Diagnostics {
	var ds diag.Diagnostics
	for _, e := range m.Registry.OfKind(entity.KindBreaker) {
		if m.Graph.Degree(e.ID()) > 0 {
			continue
		}
		bay, inBay := m.Bays.BayOf(e.ID())
		if !inBay {
			continue
		}
		ds = append(ds, newWarning(CodeBreakerUnused, e,
			fmt.Sprintf("breaker %q in bay %q appears in no connection series", e.ID(), bay), e.ID()))
	}
	return ds
}

func lookupBus(m *Model, id string) (*entity.Bus, bool) {
	e, ok := m.Registry.Lookup(id)
	if !ok {
		return nil, false
	}
	bus, ok := e.(*entity.Bus)
	return bus, ok
}
