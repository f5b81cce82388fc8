package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/plan-v1.json
var planSchemaJSON string

// SchemaJSON returns the JSON schema every plan document conforms to.
func SchemaJSON() string {
	return planSchemaJSON
}

var (
	compileOnce sync.Once
	planSchema  *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("plan-v1.json", strings.NewReader(planSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		planSchema, compileErr = compiler.Compile("plan-v1.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile schema: %w", compileErr)
		}
	})
	return planSchema, compileErr
}

// VerifyDocument checks an encoded plan against the plan schema and, once
// it is well-formed, against the construction contract: every identifier
// is constructed once, before anything refers to it.
func VerifyDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid plan document: %w", err)
	}
	return checkOrder(&doc)
}

func checkOrder(doc *Document) error {
	kinds := make(map[string]string, len(doc.Objects))
	for _, o := range doc.Objects {
		if _, dup := kinds[o.ID]; dup {
			return fmt.Errorf("object %q is declared twice", o.ID)
		}
		kinds[o.ID] = o.Kind
	}

	built := make(map[string]bool, len(doc.Objects))
	need := func(i int, name string) error {
		if _, ok := kinds[name]; !ok {
			return fmt.Errorf("instruction %d refers to undeclared object %q", i, name)
		}
		if !built[name] {
			return fmt.Errorf("instruction %d refers to %q before it is constructed", i, name)
		}
		return nil
	}
	refs := func(v ValueDoc) []string {
		switch v.Type {
		case string(TypeRef):
			if s, ok := v.Value.(string); ok {
				return []string{s}
			}
		case string(TypeRefs):
			var out []string
			items, _ := v.Value.([]any)
			for _, it := range items {
				if s, ok := it.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
		return nil
	}

	for i, in := range doc.Instructions {
		switch in.Op {
		case "construct":
			if _, ok := kinds[in.Target]; !ok {
				return fmt.Errorf("instruction %d constructs undeclared object %q", i, in.Target)
			}
			if built[in.Target] {
				return fmt.Errorf("instruction %d constructs %q twice", i, in.Target)
			}
			for _, d := range in.Deps {
				if err := need(i, d); err != nil {
					return err
				}
			}
			for _, a := range in.Args {
				for _, r := range refs(a) {
					if err := need(i, r); err != nil {
						return err
					}
				}
			}
			built[in.Target] = true
		case "set":
			if err := need(i, in.Target); err != nil {
				return err
			}
			if in.Value != nil {
				for _, r := range refs(*in.Value) {
					if err := need(i, r); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
