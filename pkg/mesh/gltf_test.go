package mesh

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/melencholia/pkg/math"
)

// writeTestGLTF writes a single-primitive glTF file with an embedded buffer.
func writeTestGLTF(t *testing.T, positions [][3]float32, indices []uint16) string {
	t.Helper()

	buf := new(bytes.Buffer)
	for _, p := range positions {
		binary.Write(buf, binary.LittleEndian, p)
	}
	posLen := buf.Len()
	for _, i := range indices {
		binary.Write(buf, binary.LittleEndian, i)
	}
	idxLen := buf.Len() - posLen
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": %d},
    {"buffer": 0, "byteOffset": %d, "byteLength": %d}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": %d, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": %d, "type": "SCALAR"}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}]
}`, buf.Len(), base64.StdEncoding.EncodeToString(buf.Bytes()),
		posLen, posLen, idxLen, len(positions), len(indices))

	path := filepath.Join(t.TempDir(), "mesh.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestLoadGLTF(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}
	path := writeTestGLTF(t, positions, []uint16{0, 1, 2, 0, 2, 3})

	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	assert.Equal(t, 4, m.Vertices)

	want := Triangle{P: [3]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}}}
	assert.Equal(t, want, m.Triangles[1])
}

func TestLoadGLTF_IndexOutOfRange(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	path := writeTestGLTF(t, positions, []uint16{0, 1, 7})

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMalformedGeometry)
}

func TestLoadGLTF_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.ErrorIs(t, err, ErrOpen)
}
