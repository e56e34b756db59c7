// Package arrows provides the visual marker meshes for the trim-box
// handles. They are loaded from a glTF file; when the asset is missing
// or broken the package falls back to procedurally generated shapes so
// the manipulator never paints without handles.
package arrows

import (
	"log"
	"math"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrUnavailable reports that the glTF handle asset could not be used
// and procedural geometry was substituted.
var ErrUnavailable = errors.New("handle asset unavailable")

type Mesh struct {
	Positions []float32 `json:"positions"`
	Indices   []uint32  `json:"indices"`
}

// Set holds one marker mesh per handle kind.
type Set struct {
	Face   Mesh `json:"face"`
	Edge   Mesh `json:"edge"`
	Corner Mesh `json:"corner"`
	Axis   Mesh `json:"axis"`

	// Fallback is true when the set is procedural.
	Fallback bool `json:"fallback"`
}

var nodeNames = [4]string{"arrow", "arc", "corner", "axis"}

// Load reads the four named marker meshes (arrow, arc, corner, axis)
// from a glTF file.
func Load(path string) (*Set, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}

	var set Set
	targets := [4]*Mesh{&set.Face, &set.Edge, &set.Corner, &set.Axis}
	for i, name := range nodeNames {
		mesh, err := readNamedMesh(doc, name)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh %q from %q", name, path)
		}
		*targets[i] = mesh
	}
	return &set, nil
}

func readNamedMesh(doc *gltf.Document, name string) (Mesh, error) {
	for _, node := range doc.Nodes {
		if node.Name != name || node.Mesh == nil {
			continue
		}
		gm := doc.Meshes[*node.Mesh]
		if len(gm.Primitives) == 0 {
			return Mesh{}, errors.Errorf("Mesh %q has no primitives", name)
		}
		prim := gm.Primitives[0]

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return Mesh{}, errors.Errorf("Mesh %q has no POSITION attribute", name)
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return Mesh{}, errors.Wrapf(err, "Failed to read positions")
		}
		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return Mesh{}, errors.Wrapf(err, "Failed to read indices")
			}
		}

		out := Mesh{
			Positions: make([]float32, 0, len(pos)*3),
			Indices:   indices,
		}
		for _, p := range pos {
			out.Positions = append(out.Positions, p[0], p[1], p[2])
		}
		return out, nil
	}
	return Mesh{}, errors.Errorf("No node named %q", name)
}

var fallbackLogged bool

// LoadOrFallback returns the asset set from path, or the procedural set
// when loading fails. The failure is logged once per process.
func LoadOrFallback(path string) *Set {
	if path != "" {
		if set, err := Load(path); err == nil {
			return set
		} else if !fallbackLogged {
			fallbackLogged = true
			log.Printf("[arrows] %v, using procedural handles", errors.Wrapf(ErrUnavailable, "%v", err))
		}
	}
	return Procedural()
}

// Procedural builds the built-in marker shapes: a cone arrow for faces,
// a quarter arc for edges, a cube for corners and a thin rod for the
// axis handles.
func Procedural() *Set {
	return &Set{
		Face:     cone(0.06, 0.18, 12),
		Edge:     quarterArc(0.22, 0.02, 8),
		Corner:   cube(0.05),
		Axis:     rod(0.015, 0.3, 8),
		Fallback: true,
	}
}

// cone builds a cone pointing along +Y with an open base.
func cone(radius, height float32, segments int) Mesh {
	var m Mesh
	// apex then base ring
	m.Positions = append(m.Positions, 0, height, 0)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		m.Positions = append(m.Positions,
			radius*float32(math.Cos(a)), 0, radius*float32(math.Sin(a)))
	}
	for i := 0; i < segments; i++ {
		next := (i+1)%segments + 1
		m.Indices = append(m.Indices, 0, uint32(i+1), uint32(next))
	}
	return m
}

// quarterArc builds a flat 90 degree ribbon in the XZ plane.
func quarterArc(radius, width float32, segments int) Mesh {
	var m Mesh
	for i := 0; i <= segments; i++ {
		a := math.Pi / 2 * float64(i) / float64(segments)
		c, s := float32(math.Cos(a)), float32(math.Sin(a))
		m.Positions = append(m.Positions,
			(radius-width)*c, 0, (radius-width)*s,
			(radius+width)*c, 0, (radius+width)*s)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base+1, base+3, base+2)
	}
	return m
}

func cube(half float32) Mesh {
	var m Mesh
	for _, sx := range []float32{-1, 1} {
		for _, sy := range []float32{-1, 1} {
			for _, sz := range []float32{-1, 1} {
				m.Positions = append(m.Positions, sx*half, sy*half, sz*half)
			}
		}
	}
	// vertex order matches the sx,sy,sz nesting above
	m.Indices = []uint32{
		0, 1, 3, 0, 3, 2,
		4, 6, 7, 4, 7, 5,
		0, 4, 5, 0, 5, 1,
		2, 3, 7, 2, 7, 6,
		0, 2, 6, 0, 6, 4,
		1, 5, 7, 1, 7, 3,
	}
	return m
}

// rod builds a thin cylinder along +Y.
func rod(radius, height float32, segments int) Mesh {
	var m Mesh
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c, s := radius*float32(math.Cos(a)), radius*float32(math.Sin(a))
		m.Positions = append(m.Positions, c, 0, s, c, height, s)
	}
	for i := 0; i < segments; i++ {
		b0 := uint32(i * 2)
		b2 := uint32(((i + 1) % segments) * 2)
		m.Indices = append(m.Indices,
			b0, b0+1, b2,
			b0+1, b2+1, b2)
	}
	return m
}
