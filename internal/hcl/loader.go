package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
	"github.com/specialistvlad/cecplan/internal/templatable"
)

const (
	actionBlock = "action"
	thenKey     = "then"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse implements config.Loader.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL configuration.", zap.String("file", filename))

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	content, diags := file.Body.Content(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: config.ComponentKey}},
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	block, diags := findUniqueBlock(content.Blocks, config.ComponentKey)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}
	if block == nil {
		return nil, fmt.Errorf("%s: no %q block found", filename, config.ComponentKey)
	}

	body, ok := block.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported HCL body type %T", filename, block.Body)
	}
	val, diags := (&translator{src: src}).body(body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	return &config.Document{Filename: filename, Component: val}, nil
}

// findUniqueBlock returns the block of the given type, or nil if there is
// none. More than one is an error.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed.",
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}
	return found, diags
}

// translator turns HCL bodies into raw configuration trees.
type translator struct {
	src []byte
}

func (t *translator) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: templatable.Functions()}
}

func (t *translator) body(body *hclsyntax.Body) (cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	attrs := make(map[string]cty.Value, len(body.Attributes))

	for name, attr := range body.Attributes {
		v, attrDiags := t.attribute(attr)
		diags = append(diags, attrDiags...)
		attrs[name] = v
	}

	// Group nested blocks by type, keeping source order.
	var order []string
	grouped := make(map[string][]cty.Value)
	var actions []cty.Value
	for _, block := range body.Blocks {
		if block.Type == actionBlock {
			if len(block.Labels) != 1 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid action block",
					Detail:   "An action block needs exactly one label, the action name, e.g. action \"hdmi_cec.send\".",
					Subject:  block.DefRange().Ptr(),
				})
				continue
			}
			v, blockDiags := t.body(block.Body)
			diags = append(diags, blockDiags...)
			actions = append(actions, cty.ObjectVal(map[string]cty.Value{block.Labels[0]: v}))
			continue
		}

		if len(block.Labels) > 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected block labels",
				Detail:   fmt.Sprintf("Blocks of type %q do not take labels.", block.Type),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			continue
		}
		if _, isAttr := attrs[block.Type]; isAttr {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate definition",
				Detail:   fmt.Sprintf("%q is set both as an attribute and as a block.", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		v, blockDiags := t.body(block.Body)
		diags = append(diags, blockDiags...)
		if _, seen := grouped[block.Type]; !seen {
			order = append(order, block.Type)
		}
		grouped[block.Type] = append(grouped[block.Type], v)
	}

	for _, name := range order {
		items := grouped[name]
		if len(items) == 1 {
			attrs[name] = items[0]
		} else {
			attrs[name] = cty.TupleVal(items)
		}
	}

	if len(actions) > 0 {
		if _, exists := attrs[thenKey]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate definition",
				Detail:   "Use either a then attribute or action blocks, not both.",
				Subject:  body.SrcRange.Ptr(),
			})
		} else {
			attrs[thenKey] = cty.TupleVal(actions)
		}
	}

	return cty.ObjectVal(attrs), diags
}

func (t *translator) attribute(attr *hclsyntax.Attribute) (cty.Value, hcl.Diagnostics) {
	if len(attr.Expr.Variables()) > 0 {
		source := string(attr.Expr.Range().SliceBytes(t.src))
		return config.LambdaVal(&config.Lambda{Expr: attr.Expr, Source: source}), nil
	}
	return attr.Expr.Value(t.evalContext())
}
