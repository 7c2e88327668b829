package validate

import (
	"context"

	"github.com/vk/substationc/internal/ctxlog"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
	"github.com/vk/substationc/internal/topology"
)

// Diagnostic codes reported by the rules.
const (
	CodeUnknownReference = diag.CodeUnknownIdentifier
	CodeReferenceKind    = "E.REF.KIND"
	CodeVoltageMismatch  = "E.VOLT.MISMATCH"
	CodeCurrentRating    = "W.RATING.CURRENT"
	CodeIsolated         = "W.TOPO.ISOLATED"
	CodeEmptyBay         = "W.BAY.EMPTY"
	CodeCouplerBus       = "E.COUPLER.BUS"
	CodeCouplerSelf      = "E.COUPLER.SELF"
	CodeCouplerVoltage   = "W.COUPLER.KV"
	CodeBayVoltage       = "W.BAY.KV"
	CodeBreakerUnused    = "W.PROT.BRK_UNUSED"
)

// Model is the completed build a validation pass reads. It is never
// modified by the rules.
type Model struct {
	Registry *registry.Registry
	Graph    *topology.Graph
	Bays     *topology.BayMap
}

type rule struct {
	name  string
	check func(m *Model) diag.Diagnostics
}

// rules run in this order, so diagnostics are reproducible.
var rules = []rule{
	{"reference integrity", checkReferences},
	{"voltage continuity", checkVoltage},
	{"current rating", checkCurrentRating},
	{"isolated entity", checkIsolated},
	{"bay population", checkBayPopulation},
	{"coupler sanity", checkCouplers},
	{"coupler voltage", checkCouplerVoltage},
	{"bay voltage", checkBayVoltage},
	{"breaker usage", checkBreakerUsage},
}

// Validate runs every rule against m from scratch and returns all findings.
// It never stops at the first error.
func Validate(ctx context.Context, m *Model) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)

	var all diag.Diagnostics
	for _, r := range rules {
		found := r.check(m)
		if len(found) > 0 {
			logger.Debug("Validation rule reported findings.", "rule", r.name, "count", len(found))
		}
		all = append(all, found...)
	}
	logger.Debug("Validation finished.",
		"entities", m.Registry.Len(),
		"edges", len(m.Graph.Edges()),
		"errors", len(all.Errors()),
		"warnings", len(all.Warnings()),
	)
	return all
}

// Report runs Validate and wraps the result.
func Report(ctx context.Context, m *Model) *diag.Report {
	return &diag.Report{Diagnostics: Validate(ctx, m)}
}

func newError(code string, e entity.Entity, summary string, subjects ...string) diag.Diagnostic {
	return finding(diag.SeverityError, code, e, summary, subjects)
}

func newWarning(code string, e entity.Entity, summary string, subjects ...string) diag.Diagnostic {
	return finding(diag.SeverityWarning, code, e, summary, subjects)
}

func finding(sev diag.Severity, code string, e entity.Entity, summary string, subjects []string) diag.Diagnostic {
	d := diag.Diagnostic{Severity: sev, Code: code, Summary: summary, Subjects: subjects}
	if e != nil {
		d.Range = rangeOf(e.Source())
	}
	return d
}
