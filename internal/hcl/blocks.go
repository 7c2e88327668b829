package hcl

import "github.com/vk/substationc/internal/command"

// blockTypes maps HCL block types to commands. Definition blocks carry the
// entity identifier as their single label.
var blockTypes = map[string]command.Kind{
	"bus":           command.AddBus,
	"bay":           command.AddBay,
	"breaker":       command.AddBreaker,
	"disconnector":  command.AddDisconnector,
	"transformer":   command.AddTransformer,
	"line":          command.AddLine,
	"coupler":       command.AddCoupler,
	"connect":       command.Connect,
	"append_to_bay": command.AppendToBay,
	"validate":      command.Validate,
	"emit_spec":     command.EmitSpec,
}

var blockNames = func() map[command.Kind]string {
	m := make(map[command.Kind]string, len(blockTypes))
	for name, k := range blockTypes {
		m[k] = name
	}
	return m
}()

// labelAttr is the attribute a definition block's label is bound to.
const labelAttr = "id"

// BlockType returns the HCL block type for a command kind.
func BlockType(k command.Kind) string {
	return blockNames[k]
}
