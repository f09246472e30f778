package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/melencholia/pkg/math"
)

// LoadOBJ reads a text mesh from path.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	defer f.Close()

	return ParseOBJ(f, path)
}

// ParseOBJ parses the line-oriented text mesh format:
//
//	v <x> <y> <z>   vertex, numbered from 1 in declaration order
//	f <a> <b> <c>   triangle referencing three declared vertices
//
// Any other line is ignored. Lines have no length limit. A face may only
// reference vertices declared above it. name is used in error messages.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	br := bufio.NewReader(r)
	m := &Mesh{Source: name}
	var verts []math.Vec3

	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, &LoadError{Path: name, Line: lineNo, Err: readErr}
		}

		fields := strings.Fields(line)
		if len(fields) > 0 {
			switch fields[0] {
			case "v":
				v, err := parseVertex(fields[1:])
				if err != nil {
					return nil, &LoadError{Path: name, Line: lineNo, Err: err}
				}
				verts = append(verts, v)
			case "f":
				tri, err := parseFace(fields[1:], verts)
				if err != nil {
					return nil, &LoadError{Path: name, Line: lineNo, Err: err}
				}
				m.Triangles = append(m.Triangles, tri)
			}
		}

		if readErr != nil {
			break
		}
	}

	m.Vertices = len(verts)
	return m, nil
}

func parseVertex(args []string) (math.Vec3, error) {
	if len(args) != 3 {
		return math.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrSyntax, len(args))
	}
	var c [3]float32
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: bad coordinate %q", ErrSyntax, s)
		}
		c[i] = float32(f)
		if math32.IsNaN(c[i]) || math32.IsInf(c[i], 0) {
			return math.Vec3{}, fmt.Errorf("%w: non-finite coordinate %q", ErrSyntax, s)
		}
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseFace(args []string, verts []math.Vec3) (Triangle, error) {
	if len(args) != 3 {
		return Triangle{}, fmt.Errorf("%w: face needs 3 vertex indices, got %d", ErrSyntax, len(args))
	}
	var idx [3]int
	for i, s := range args {
		// "a/b/c" carries texture and normal indices after the vertex.
		if slash := strings.IndexByte(s, '/'); slash >= 0 {
			s = s[:slash]
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return Triangle{}, fmt.Errorf("%w: bad vertex index %q", ErrSyntax, args[i])
		}
		idx[i] = n - 1
	}
	return triangleFrom(verts, idx, 1)
}
