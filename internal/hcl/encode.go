package hcl

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/schema"
)

// Encode writes a validated configuration as an hdmi_cec block. Only fields
// the user wrote are written, in field table order. Lambdas are written as
// their source text, so loading the output yields the same configuration.
func Encode(cfg *schema.Config) []byte {
	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock(config.ComponentKey, nil)
	encodeBody(block.Body(), cfg)
	return hclwrite.Format(f.Bytes())
}

func encodeBody(body *hclwrite.Body, cfg *schema.Config) {
	for _, field := range cfg.Node().Fields() {
		if !cfg.Has(field.Name) {
			continue
		}

		switch field.Kind {
		case schema.KindObject:
			sub, _ := cfg.Object(field.Name)
			encodeBody(body.AppendNewBlock(field.Name, nil).Body(), sub)
		case schema.KindBlocks:
			for _, sub := range cfg.Blocks(field.Name) {
				body.AppendNewline()
				encodeBody(body.AppendNewBlock(field.Name, nil).Body(), sub)
			}
		case schema.KindActions:
			for _, action := range cfg.Actions(field.Name) {
				encodeBody(body.AppendNewBlock(actionBlock, []string{action.Name}).Body(), action.Config)
			}
		default:
			if l, ok := cfg.Templatable(field.Name).Lambda(); ok {
				body.SetAttributeRaw(field.Name, lambdaTokens(l))
				continue
			}
			raw, _ := cfg.RawField(field.Name)
			body.SetAttributeValue(field.Name, raw)
		}
	}
}

// lambdaTokens carries the expression source as a single token; Format
// re-lexes it.
func lambdaTokens(l *config.Lambda) hclwrite.Tokens {
	return hclwrite.Tokens{{Type: hclsyntax.TokenIdent, Bytes: []byte(l.Source)}}
}
