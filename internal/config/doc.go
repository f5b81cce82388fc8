// Package config defines the format-agnostic raw configuration tree the
// compiler consumes, along with the Loader interface concrete formats (HCL,
// YAML) implement.
//
// A raw tree is a cty.Value: objects for mappings, tuples for sequences and
// primitives for scalars. A value the user marked for runtime evaluation is
// carried as a capsule holding a *Lambda, so it travels through the tree
// untouched until the templatable value compiler claims it.
package config
