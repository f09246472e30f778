package mesh

import (
	"path/filepath"
	"strings"
)

// Load reads a mesh, choosing the parser from the file extension:
// .gltf and .glb are read as glTF, everything else as the text format.
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return LoadOBJ(path)
	}
}
