package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/ctxlog"
	"github.com/vk/substationc/internal/diag"
	"github.com/vk/substationc/internal/emit"
	"github.com/vk/substationc/internal/entity"
	"github.com/vk/substationc/internal/registry"
	"github.com/vk/substationc/internal/topology"
	"github.com/vk/substationc/internal/validate"
)

// ErrValidation is returned by Compile when the latest validation pass
// reported errors.
var ErrValidation = errors.New("validation failed")

// Result is the outcome of compiling one document.
type Result struct {
	// Document is set by the last successful EMIT_SPEC.
	Document *emit.Document
	// Diagnostics holds the findings of the latest VALIDATE followed by
	// the fatal error that stopped compilation, if any.
	Diagnostics diag.Diagnostics
}

// Compiler is the mutable build context of one document. Commands are
// applied in order; a Compiler is not safe for concurrent use.
type Compiler struct {
	registry *registry.Registry
	builder  *topology.Builder
	// report is the latest validation result, or nil if validation has
	// not run since the last build command.
	report *diag.Report
	// staleAt is the line of the command that invalidated report.
	staleAt   int
	lastCheck diag.Diagnostics
	document  *emit.Document
}

// New creates a Compiler with an empty build.
func New() *Compiler {
	reg := registry.New()
	return &Compiler{
		registry: reg,
		builder:  topology.NewBuilder(reg),
	}
}

// Model returns the current build for read-only inspection.
func (c *Compiler) Model() *validate.Model {
	return &validate.Model{
		Registry: c.registry,
		Graph:    c.builder.Graph(),
		Bays:     c.builder.Bays(),
	}
}

// Report returns the current validation report, or nil when validation has
// not run or has gone stale.
func (c *Compiler) Report() *diag.Report {
	return c.report
}

// Document returns the most recently emitted document.
func (c *Compiler) Document() *emit.Document {
	return c.document
}

// Apply executes one command against the build. Structural failures are
// returned as the typed errors of package diag and leave the build as it
// was before the command.
func (c *Compiler) Apply(ctx context.Context, cmd command.Command) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Applying command.", "command", cmd.Kind.String(), "line", cmd.Line())

	switch cmd.Kind {
	case command.AddBus, command.AddBay, command.AddBreaker, command.AddDisconnector,
		command.AddTransformer, command.AddLine, command.AddCoupler:
		e, err := newEntity(cmd)
		if err != nil {
			return err
		}
		if err := c.registry.Define(e); err != nil {
			return err
		}
		if t, ok := customType(e); ok {
			logger.Debug("Custom equipment type.", "id", e.ID(), "kind", e.Kind(), "type", t)
		}
		c.invalidate(cmd.Line())

	case command.Connect:
		if err := c.builder.Connect(cmd.IDs("series"), cmd.Range); err != nil {
			return err
		}
		c.invalidate(cmd.Line())

	case command.AppendToBay:
		if err := c.builder.AppendToBay(cmd.String("bay_id"), cmd.String("object_id"), cmd.Range); err != nil {
			return err
		}
		c.invalidate(cmd.Line())

	case command.Validate:
		c.report = validate.Report(ctx, c.Model())
		c.staleAt = 0
		c.lastCheck = c.report.Diagnostics
		logger.Debug("Validation complete.",
			"line", cmd.Line(),
			"errors", len(c.report.Diagnostics.Errors()),
			"warnings", len(c.report.Diagnostics.Warnings()),
		)

	case command.EmitSpec:
		doc, err := emit.Emit(c.report, c.registry, c.builder.Graph(), c.builder.Bays())
		if err != nil {
			var unvalidated *diag.EmitWithoutValidationError
			if errors.As(err, &unvalidated) {
				unvalidated.Range = cmd.Range
				unvalidated.StaleAt = c.staleAt
			}
			return err
		}
		c.document = doc
		logger.Debug("Document emitted.", "line", cmd.Line(), "entities", len(doc.Entities))

	default:
		return fmt.Errorf("line %d: unsupported command %s", cmd.Line(), cmd.Kind)
	}
	return nil
}

// customType returns the classification of a switching device whose type
// is not one of the well-known technologies.
func customType(e entity.Entity) (string, bool) {
	switch d := e.(type) {
	case *entity.Breaker:
		return string(d.Type), !d.Type.Known()
	case *entity.Disconnector:
		return string(d.Type), !d.Type.Known()
	}
	return "", false
}

// invalidate marks the latest validation as stale after the build changed
// at line.
func (c *Compiler) invalidate(line int) {
	if c.report != nil {
		c.staleAt = line
	}
	c.report = nil
}

// Compile applies cmds in order to a fresh Compiler. It stops at the first
// structural error. A document whose latest VALIDATE reported errors yields
// an error wrapping ErrValidation.
func Compile(ctx context.Context, cmds []command.Command) (Result, error) {
	c := New()
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return c.result(), err
		}
		if err := c.Apply(ctx, cmd); err != nil {
			res := c.result()
			res.Diagnostics = append(res.Diagnostics, diag.AsDiagnostic(err))
			return res, err
		}
	}

	res := c.result()
	if n := len(c.lastCheck.Errors()); n > 0 {
		return res, fmt.Errorf("%w: %d error(s)", ErrValidation, n)
	}
	return res, nil
}

func (c *Compiler) result() Result {
	ds := make(diag.Diagnostics, len(c.lastCheck))
	copy(ds, c.lastCheck)
	return Result{Document: c.document, Diagnostics: ds}
}

// newEntity builds the entity declared by a definition command.
func newEntity(cmd command.Command) (entity.Entity, error) {
	base := entity.At(cmd.String("id"), cmd.Range)
	switch cmd.Kind {
	case command.AddBus:
		return &entity.Bus{Base: base, KV: cmd.Number("kv")}, nil
	case command.AddBay:
		return &entity.Bay{
			Base:     base,
			Function: entity.BayFunction(cmd.String("kind")),
			KV:       cmd.Number("kv"),
			Bus:      cmd.String("bus"),
		}, nil
	case command.AddBreaker:
		return &entity.Breaker{
			Base:           base,
			KV:             cmd.Number("kv"),
			InterruptingKA: cmd.Number("interrupting_kA"),
			Type:           entity.BreakerType(cmd.String("type")),
			ContinuousA:    cmd.Number("continuous_A"),
		}, nil
	case command.AddDisconnector:
		return &entity.Disconnector{
			Base:        base,
			KV:          cmd.Number("kv"),
			Type:        entity.DisconnectorType(cmd.String("type")),
			ContinuousA: cmd.Number("continuous_A"),
		}, nil
	case command.AddTransformer:
		return &entity.Transformer{
			Base:        base,
			Type:        entity.WindingConfig(cmd.String("type")),
			RatedMVA:    cmd.Number("rated_MVA"),
			VectorGroup: cmd.String("vector_group"),
			PercentZ:    cmd.Number("percentZ"),
		}, nil
	case command.AddLine:
		return &entity.Line{
			Base:     base,
			KV:       cmd.Number("kv"),
			Type:     entity.LineConstruction(cmd.String("type")),
			LengthKM: cmd.Number("length_km"),
			ThermalA: cmd.Number("thermal_A"),
		}, nil
	case command.AddCoupler:
		return &entity.Coupler{
			Base:    base,
			KV:      cmd.Number("kv"),
			FromBus: cmd.String("from_bus"),
			ToBus:   cmd.String("to_bus"),
		}, nil
	default:
		return nil, fmt.Errorf("line %d: %s does not declare an entity", cmd.Line(), cmd.Kind)
	}
}
