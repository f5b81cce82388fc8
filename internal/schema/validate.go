package schema

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/nodeid"
	"github.com/specialistvlad/cecplan/internal/templatable"
	"github.com/specialistvlad/cecplan/internal/validate"
)

// walker validates raw trees. Sibling blocks are independent and are
// validated concurrently, up to workers at a time.
type walker struct {
	workers int
}

func (w *walker) object(ctx context.Context, n *Node, raw cty.Value, path *nodeid.Address) (*Config, validate.Errors) {
	var errs validate.Errors
	cfg := newConfig(n, path)

	attrs, err := mapping(raw)
	if err != nil {
		return nil, append(errs, err.At(path))
	}

	// Unknown keys first: a misspelt key usually explains a missing one.
	unknown := make([]string, 0)
	for key := range attrs {
		if _, ok := n.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, validate.Invalid("extra keys not allowed, valid keys are: %s", strings.Join(n.Names(), ", ")).At(path.Field(key)))
	}

	for _, f := range n.fields {
		fieldPath := path.Field(f.Name)
		rv, ok := attrs[f.Name]
		if !ok {
			if f.Required {
				errs = append(errs, validate.Invalid("required key not provided").At(fieldPath))
			} else if f.Default != nil {
				cfg.values[f.Name] = f.Default
			}
			continue
		}

		cfg.present[f.Name] = true
		v, fieldErrs := w.field(ctx, f, rv, fieldPath)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		cfg.values[f.Name] = v
	}
	return cfg, errs
}

func (w *walker) field(ctx context.Context, f *Field, raw cty.Value, path *nodeid.Address) (any, validate.Errors) {
	_, isLambda := config.AsLambda(raw)
	if isLambda && !(f.Kind == KindScalar && f.Templatable) {
		return nil, validate.Errors{validate.Invalid("this option is not templatable, lambdas are not allowed here").At(path)}
	}

	switch f.Kind {
	case KindObject:
		if f.Shorthand != nil {
			if _, err := mapping(raw); err != nil {
				expanded, sErr := f.Shorthand(raw)
				if sErr != nil {
					return nil, validate.Errors{anchor(sErr, path)}
				}
				raw = expanded
			}
		}
		cfg, errs := w.object(ctx, f.Object, raw, path)
		return cfg, errs
	case KindBlocks:
		return w.blocks(ctx, f.Object, raw, path)
	case KindActions:
		return w.actions(ctx, f.Actions, raw, path)
	}

	if f.Templatable {
		v, err := templatable.Parse(raw, f.Check, path)
		if err != nil {
			return nil, validate.Errors{anchor(err, path)}
		}
		return v, nil
	}
	v, err := f.Check(raw)
	if err != nil {
		return nil, validate.Errors{anchor(err, path)}
	}
	return v, nil
}

func (w *walker) blocks(ctx context.Context, n *Node, raw cty.Value, path *nodeid.Address) ([]*Config, validate.Errors) {
	items, err := sequence(raw)
	if err != nil {
		return nil, validate.Errors{err.At(path)}
	}

	configs := make([]*Config, len(items))
	itemErrs := make([]validate.Errors, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if w.workers > 0 {
		g.SetLimit(w.workers)
	}
	for i, item := range items {
		g.Go(func() error {
			configs[i], itemErrs[i] = w.object(gctx, n, item, path.Index(i))
			return nil
		})
	}
	_ = g.Wait()

	var errs validate.Errors
	for _, e := range itemErrs {
		errs = append(errs, e...)
	}
	return configs, errs
}

func (w *walker) actions(ctx context.Context, reg ActionSchemas, raw cty.Value, path *nodeid.Address) ([]Action, validate.Errors) {
	items, err := sequence(raw)
	if err != nil {
		return nil, validate.Errors{err.At(path)}
	}

	if reg == nil {
		return nil, validate.Errors{validate.Invalid("no actions are available").At(path)}
	}

	var errs validate.Errors
	out := make([]Action, 0, len(items))
	for i, item := range items {
		itemPath := path.Index(i)
		attrs, mErr := mapping(item)
		if mErr != nil || len(attrs) != 1 {
			errs = append(errs, validate.Invalid("an action must be a mapping with exactly one key, the action name").At(itemPath))
			continue
		}
		var name string
		var body cty.Value
		for k, v := range attrs {
			name, body = k, v
		}
		node, ok := reg.ActionSchema(name)
		if !ok {
			errs = append(errs, validate.Invalid("unknown action %q, available actions: %s", name, strings.Join(reg.ActionNames(), ", ")).At(itemPath))
			continue
		}
		cfg, bodyErrs := w.object(ctx, node, body, itemPath.Field(name))
		if len(bodyErrs) > 0 {
			errs = append(errs, bodyErrs...)
			continue
		}
		out = append(out, Action{Name: name, Config: cfg})
	}
	return out, errs
}

// mapping returns the attributes of an object or map value. Null reads as
// an empty mapping so `hdmi_cec:` with no body reports missing keys.
func mapping(raw cty.Value) (map[string]cty.Value, *validate.Error) {
	if raw.IsNull() {
		return map[string]cty.Value{}, nil
	}
	if !raw.IsKnown() {
		return nil, validate.Invalid("value is not known")
	}
	ty := raw.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, validate.Invalid("expected a mapping, got %s", friendly(ty))
	}
	out := make(map[string]cty.Value, raw.LengthInt())
	for it := raw.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}

// sequence accepts a list of mappings or a single mapping.
func sequence(raw cty.Value) ([]cty.Value, *validate.Error) {
	if raw.IsNull() || !raw.IsKnown() {
		return nil, validate.Invalid("expected a mapping or a list of mappings")
	}
	ty := raw.Type()
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		return []cty.Value{raw}, nil
	case ty.IsTupleType() || ty.IsListType():
		out := make([]cty.Value, 0, raw.LengthInt())
		for it := raw.ElementIterator(); it.Next(); {
			_, v := it.Element()
			out = append(out, v)
		}
		return out, nil
	}
	return nil, validate.Invalid("expected a mapping or a list of mappings, got %s", friendly(ty))
}

func friendly(ty cty.Type) string {
	if ty.Equals(config.LambdaType) {
		return "lambda"
	}
	return ty.FriendlyName()
}

// anchor converts err into a validation error located at path.
func anchor(err error, path *nodeid.Address) *validate.Error {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		if vErr.Path != nil {
			return vErr
		}
		return vErr.At(path)
	}
	return validate.Invalid("%v", err).At(path)
}
