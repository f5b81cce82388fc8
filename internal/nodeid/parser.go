// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex parses a single segment of a path, e.g. `osd_name` or `on_message[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)(?:\[(\d+)\])?$`)

// Parse creates a new Address by parsing its canonical string representation.
func Parse(rawPath string) (*Address, error) {
	if rawPath == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	addr := &Address{}
	for _, segmentStr := range strings.Split(rawPath, ".") {
		if segmentStr == "" {
			return nil, fmt.Errorf("field path %q contains an empty segment", rawPath)
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return nil, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}

		segment := NewPathSegment(matches[1])
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("index of segment %q out of range: %w", segmentStr, err)
			}
			segment.Index = index
		}
		addr.Path = append(addr.Path, segment)
	}

	return addr, nil
}
