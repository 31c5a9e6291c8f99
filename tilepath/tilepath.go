// Package tilepath encodes the ordered sprite layers of one tile as text.
//
// A path looks like "Atlas1:0,0:pillar:2,3:T". Segments are read in
// (atlas, "x,y") pairs, bottom layer first. The final segment has no
// coordinate and terminates the path; it is never resolved.
package tilepath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/tileengine/atlas"
)

// Terminator is the trailing segment written by Encode.
const Terminator = "T"

// MalformedPathError reports text that does not follow the path grammar.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("tilepath: invalid tile path %q: %s", e.Path, e.Reason)
}

// Ref names one cell of one atlas.
type Ref struct {
	Atlas string
	Coord atlas.Coord
}

// Key returns the cache key "{atlas},{x},{y}".
func (r Ref) Key() string { return atlas.Key(r.Atlas, r.Coord) }

// String returns the path segments "{atlas}:{x},{y}".
func (r Ref) String() string {
	return fmt.Sprintf("%s:%d,%d", r.Atlas, r.Coord.X, r.Coord.Y)
}

// Decode parses a tile path into its layer references.
func Decode(path string) ([]Ref, error) {
	parts := strings.Split(path, ":")
	if len(parts) <= 2 || len(parts)%2 == 0 {
		return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("%d segments", len(parts))}
	}

	refs := make([]Ref, 0, len(parts)/2)
	for i := 0; i < len(parts)-1; i += 2 {
		if parts[i] == "" {
			return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("empty atlas name in segment %d", i)}
		}
		coord, err := parseCoord(parts[i+1])
		if err != nil {
			return nil, &MalformedPathError{Path: path, Reason: err.Error()}
		}
		refs = append(refs, Ref{Atlas: parts[i], Coord: coord})
	}
	return refs, nil
}

// Encode writes refs in path form, followed by the terminator. An empty slice
// encodes to "".
func Encode(refs []Ref) string {
	if len(refs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range refs {
		sb.WriteString(r.String())
		sb.WriteByte(':')
	}
	sb.WriteString(Terminator)
	return sb.String()
}

// ParseKey parses a cache key of the form "{atlas},{x},{y}".
func ParseKey(key string) (Ref, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 3 || parts[0] == "" {
		return Ref{}, &MalformedPathError{Path: key, Reason: "expected atlas,x,y"}
	}
	coord, err := parseCoord(parts[1] + "," + parts[2])
	if err != nil {
		return Ref{}, &MalformedPathError{Path: key, Reason: err.Error()}
	}
	return Ref{Atlas: parts[0], Coord: coord}, nil
}

// FromKeys rebuilds a path from cache keys, keeping their order.
func FromKeys(keys []string) (string, error) {
	refs := make([]Ref, 0, len(keys))
	for _, k := range keys {
		r, err := ParseKey(k)
		if err != nil {
			return "", err
		}
		refs = append(refs, r)
	}
	return Encode(refs), nil
}

func parseCoord(s string) (atlas.Coord, error) {
	xy := strings.Split(s, ",")
	if len(xy) != 2 {
		return atlas.Coord{}, fmt.Errorf("coordinate %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xy[0]))
	if err != nil {
		return atlas.Coord{}, fmt.Errorf("coordinate %q: bad x", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(xy[1]))
	if err != nil {
		return atlas.Coord{}, fmt.Errorf("coordinate %q: bad y", s)
	}
	return atlas.Coord{X: x, Y: y}, nil
}
