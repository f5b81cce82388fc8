// internal/nodeid/types.go
package nodeid

// PathSegment represents a single component of an address path, e.g., `name[index]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// Address is the structured representation of a configuration field path.
type Address struct {
	Path []PathSegment
}

// New creates an address from plain segment names.
func New(names ...string) *Address {
	addr := &Address{Path: make([]PathSegment, 0, len(names))}
	for _, name := range names {
		addr.Path = append(addr.Path, NewPathSegment(name))
	}
	return addr
}

// Field returns a copy of the address extended by one named segment.
// A nil receiver yields a single-segment address.
func (a *Address) Field(name string) *Address {
	return a.with(NewPathSegment(name))
}

// Index returns a copy of the address whose last segment carries the given
// list index. On an empty address it panics, since there is nothing to index.
func (a *Address) Index(i int) *Address {
	if a == nil || len(a.Path) == 0 {
		panic("nodeid: cannot index an empty address")
	}
	out := a.clone()
	out.Path[len(out.Path)-1].Index = i
	return out
}

func (a *Address) with(seg PathSegment) *Address {
	out := a.clone()
	out.Path = append(out.Path, seg)
	return out
}

func (a *Address) clone() *Address {
	if a == nil {
		return &Address{}
	}
	path := make([]PathSegment, len(a.Path), len(a.Path)+1)
	copy(path, a.Path)
	return &Address{Path: path}
}
