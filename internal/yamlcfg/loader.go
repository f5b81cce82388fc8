package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/ctxlog"
)

// LambdaTag marks a scalar as a deferred expression.
const LambdaTag = "!lambda"

const mergeKey = "<<"

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML loader.
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
	logger.Debug("Parsing YAML configuration.", zap.String("file", filename))

	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: no %q key found", filename, config.ComponentKey)
		}
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s:%d:%d: the document must be a mapping", filename, doc.Line, doc.Column)
	}

	c := &converter{filename: filename}
	var component *yaml.Node
	var ignored []string
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		if key.Value != config.ComponentKey {
			ignored = append(ignored, key.Value)
			continue
		}
		if component != nil {
			return nil, c.errorf(key, "duplicate key %q", key.Value)
		}
		component = value
	}
	if len(ignored) > 0 {
		logger.Debug("Ignoring other components.", zap.Strings("keys", ignored))
	}
	if component == nil {
		return nil, fmt.Errorf("%s: no %q key found", filename, config.ComponentKey)
	}

	val, err := c.value(component)
	if err != nil {
		return nil, err
	}
	return &config.Document{Filename: filename, Component: val}, nil
}

// converter turns YAML nodes into raw configuration trees.
type converter struct {
	filename string
}

func (c *converter) errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", c.filename, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func (c *converter) value(n *yaml.Node) (cty.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return c.value(n.Alias)
	case yaml.ScalarNode:
		return c.scalar(n)
	case yaml.SequenceNode:
		if n.Tag == LambdaTag {
			return cty.NilVal, c.errorf(n, "%s must tag a string", LambdaTag)
		}
		return c.sequence(n)
	case yaml.MappingNode:
		if n.Tag == LambdaTag {
			return cty.NilVal, c.errorf(n, "%s must tag a string", LambdaTag)
		}
		attrs, err := c.mapping(n)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, c.errorf(n, "unsupported YAML node")
}

func (c *converter) sequence(n *yaml.Node) (cty.Value, error) {
	if len(n.Content) == 0 {
		return cty.EmptyTupleVal, nil
	}
	items := make([]cty.Value, len(n.Content))
	for i, item := range n.Content {
		v, err := c.value(item)
		if err != nil {
			return cty.NilVal, err
		}
		items[i] = v
	}
	return cty.TupleVal(items), nil
}

func (c *converter) mapping(n *yaml.Node) (map[string]cty.Value, error) {
	attrs := make(map[string]cty.Value, len(n.Content)/2)
	var merges []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, c.errorf(key, "mapping keys must be strings")
		}
		if key.Tag == "!!merge" || key.Value == mergeKey {
			merges = append(merges, value)
			continue
		}
		if _, dup := attrs[key.Value]; dup {
			return nil, c.errorf(key, "duplicate key %q", key.Value)
		}
		v, err := c.value(value)
		if err != nil {
			return nil, err
		}
		attrs[key.Value] = v
	}

	// Keys written in the mapping win over merged ones.
	for _, m := range merges {
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return nil, c.errorf(src, "merge value must be a mapping")
			}
			merged, err := c.mapping(src)
			if err != nil {
				return nil, err
			}
			for k, v := range merged {
				if _, ok := attrs[k]; !ok {
					attrs[k] = v
				}
			}
		}
	}
	return attrs, nil
}

func (c *converter) scalar(n *yaml.Node) (cty.Value, error) {
	switch n.Tag {
	case LambdaTag:
		return c.lambda(n)
	case "!!null":
		return cty.NullVal(cty.DynamicPseudoType), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return cty.NilVal, c.errorf(n, "%v", err)
		}
		return cty.BoolVal(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return cty.NilVal, c.errorf(n, "%v", err)
		}
		return cty.NumberIntVal(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return cty.NilVal, c.errorf(n, "%v", err)
		}
		return cty.NumberFloatVal(f), nil
	case "!!str", "":
		return cty.StringVal(n.Value), nil
	}
	return cty.NilVal, c.errorf(n, "unsupported tag %s", n.Tag)
}

func (c *converter) lambda(n *yaml.Node) (cty.Value, error) {
	src := lambdaBody(n.Value)
	if src == "" {
		return cty.NilVal, c.errorf(n, "empty lambda")
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), c.filename, hcl.Pos{Line: n.Line, Column: n.Column, Byte: 0})
	if diags.HasErrors() {
		return cty.NilVal, c.errorf(n, "invalid lambda %q: %s", src, diags.Error())
	}
	return config.LambdaVal(&config.Lambda{Expr: expr, Source: src}), nil
}

// lambdaBody reduces `return x;` to `x`.
func lambdaBody(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "return "); ok {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ";"))
	}
	return s
}
