package hcl

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/substationc/internal/command"
)

// Write renders cmds in HCL block form. Attributes are written in their
// canonical schema order, so parsing the output yields the same commands.
func Write(w io.Writer, cmds []command.Command) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, cmd := range cmds {
		name := BlockType(cmd.Kind)
		if name == "" {
			return fmt.Errorf("command %d: no block type for %s", i, cmd.Kind)
		}

		var labels []string
		if cmd.Kind.IsDefinition() {
			labels = []string{cmd.String(labelAttr)}
		}
		if i > 0 && cmd.Kind.IsDefinition() != cmds[i-1].Kind.IsDefinition() {
			body.AppendNewline()
		}

		block := body.AppendNewBlock(name, labels)
		for _, attr := range command.SchemaOf(cmd.Kind).Attrs {
			if labels != nil && attr.Name == labelAttr {
				continue
			}
			val, ok := cmd.Attrs[attr.Name]
			if !ok {
				return fmt.Errorf("command %d (%s): missing attribute %q", i, cmd.Kind, attr.Name)
			}
			block.Body().SetAttributeValue(attr.Name, val)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
