package asset

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"shadow-renderer/core"
	"shadow-renderer/math"
	"shadow-renderer/scene"
)

// LoadGLTF opens a .glb or .gltf file and returns one mesh per triangle
// primitive reachable from the default scene. Node transforms are baked
// into positions and normals because meshes only carry translate and scale.
// Base colour factor and texture become the colour; metallic approximates
// the specular coefficient.
func LoadGLTF(path string) ([]MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	// ── 1. Textures ───────────────────────────────────────────────────────────
	texCache := make([]*scene.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var tex *scene.Texture
		switch {
		case img.BufferView != nil:
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				slog.Warn("gltf: image bufferview", "image", *gt.Source, "error", err)
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = scene.DecodeTexture(name, bytes.NewReader(raw), false)
			if err != nil {
				slog.Warn("gltf: image decode", "image", *gt.Source, "error", err)
				continue
			}
		case img.URI != "" && !img.IsEmbeddedResource():
			tex, err = scene.LoadTexture(filepath.Join(dir, img.URI), false)
			if err != nil {
				slog.Warn("gltf: image file", "image", *gt.Source, "uri", img.URI, "error", err)
				continue
			}
		}
		texCache[i] = tex
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	matCache := make([]MaterialDesc, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := defaultMaterial(gm.Name)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Diffuse = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if idx < len(texCache) && texCache[idx] != nil {
					mat.ColorTexture = texCache[idx]
				}
			}
			s := float32(pbr.MetallicFactorOrDefault()) * 0.7
			if s > DefaultSpecular.X {
				mat.Specular = math.NewVec3(s, s, s)
			}
		}
		matCache[i] = mat
	}

	// ── 3. Nodes ──────────────────────────────────────────────────────────────
	var roots []int
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		roots = doc.Scenes[*doc.Scene].Nodes
	} else {
		hasParent := make([]bool, len(doc.Nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				if c < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				roots = append(roots, i)
			}
		}
	}

	var meshes []MeshData
	var walk func(idx int, parent mgl32.Mat4, depth int) error
	walk = func(idx int, parent mgl32.Mat4, depth int) error {
		if idx >= len(doc.Nodes) || depth > len(doc.Nodes) {
			return fmt.Errorf("gltf %q: invalid node graph at node %d", path, idx)
		}
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				if prim.Mode != gltf.PrimitiveTriangles {
					slog.Debug("gltf: skipping non-triangle primitive", "mesh", gm.Name, "primitive", pi)
					continue
				}
				m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, world)
				if err != nil {
					return fmt.Errorf("gltf %q mesh %d prim %d: %w", path, *gn.Mesh, pi, err)
				}
				m.Material = defaultMaterial("")
				if prim.Material != nil && *prim.Material < len(matCache) {
					m.Material = matCache[*prim.Material]
				}
				meshes = append(meshes, m)
			}
		}
		for _, c := range gn.Children {
			if err := walk(c, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := walk(r, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}
	return meshes, nil
}

// nodeMatrix is the node's local T·R·S in column-vector convention.
func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// loadGLTFPrimitive reads one primitive and transforms it by world.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, world mgl32.Mat4) (MeshData, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return MeshData{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return MeshData{}, fmt.Errorf("positions: %w", err)
	}

	model := math.Mat4FromMgl(world)
	normalMat := world.Mat3().Inv().Transpose()
	m := MeshData{Name: name, Positions: make([]float32, 0, len(positions)*3)}
	for _, p := range positions {
		v := model.MulVec3(math.NewVec3(p[0], p[1], p[2]))
		m.Positions = append(m.Positions, v.X, v.Y, v.Z)
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return MeshData{}, fmt.Errorf("normals: %w", err)
		}
		m.Normals = make([]float32, 0, len(normals)*3)
		for _, n := range normals {
			v := normalMat.Mul3x1(math.NewVec3(n[0], n[1], n[2]).ToMgl()).Normalize()
			m.Normals = append(m.Normals, v[0], v[1], v[2])
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return MeshData{}, fmt.Errorf("texcoords: %w", err)
		}
		m.Texcoords = make([]float32, 0, len(uvs)*2)
		for _, uv := range uvs {
			m.Texcoords = append(m.Texcoords, uv[0], uv[1])
		}
	}

	if prim.Indices != nil {
		m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return MeshData{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	if m.Normals == nil {
		m.Normals = generateNormals(m.Positions, m.Indices)
	}
	return m, nil
}
