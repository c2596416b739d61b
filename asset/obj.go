package asset

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"shadow-renderer/core"
	"shadow-renderer/math"
	"shadow-renderer/scene"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

type faceVertex struct{ v, vt, vn int }

// LoadOBJ parses a Wavefront .obj file and returns one mesh per object or
// group. A companion .mtl file is loaded when referenced via "mtllib".
func LoadOBJ(path string) ([]MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions, normals []math.Vec3
	var uvs [][2]float32
	materials := map[string]MaterialDesc{}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: %s needs 3 components", path, lineNo, fields[0])
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			if fields[0] == "v" {
				positions = append(positions, v)
			} else {
				normals = append(normals, v)
			}

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%s:%d: vt needs 2 components", path, lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 32)
			v, err2 := strconv.ParseFloat(fields[2], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%s:%d: bad texture coordinate", path, lineNo)
			}
			uvs = append(uvs, [2]float32{float32(u), float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				loaded, err := loadMTL(filepath.Join(dir, fields[1]), dir)
				if err != nil {
					slog.Warn("obj: skipping material library", "path", path, "mtllib", fields[1], "error", err)
					continue
				}
				for k, v := range loaded {
					materials[k] = v
				}
			}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", path, lineNo)
			}
			fverts := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				fverts = append(fverts, fv)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	meshes := make([]MeshData, 0, len(objects))
	for _, obj := range objects {
		m := buildMeshFromOBJ(obj.name, obj.faces, positions, normals, uvs)
		if mat, ok := materials[obj.matName]; ok {
			m.Material = mat
		} else {
			m.Material = defaultMaterial(obj.matName)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	var out [3]float32
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("bad number %q", s)
		}
		out[i] = float32(f)
	}
	return math.Vec3FromSlice(out[:]), nil
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn" or
// "v/vt/vn". OBJ indices are 1-based; negative ones count back from the
// most recent element. The result is 0-based with -1 for absent.
func parseFaceVertex(tok string, nv, nvt, nvn int) (faceVertex, error) {
	parseIdx := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("bad face index %q", s)
		}
		if i < 0 {
			i = n + i
		} else {
			i--
		}
		if i < 0 || i >= n {
			return 0, fmt.Errorf("face index %q out of range", s)
		}
		return i, nil
	}

	parts := strings.Split(tok, "/")
	res := faceVertex{v: -1, vt: -1, vn: -1}
	var err error
	if res.v, err = parseIdx(parts[0], nv); err != nil {
		return res, err
	}
	if res.v < 0 {
		return res, fmt.Errorf("face vertex %q has no position", tok)
	}
	if len(parts) > 1 {
		if res.vt, err = parseIdx(parts[1], nvt); err != nil {
			return res, err
		}
	}
	if len(parts) > 2 {
		if res.vn, err = parseIdx(parts[2], nvn); err != nil {
			return res, err
		}
	}
	return res, nil
}

// buildMeshFromOBJ converts parsed faces into de-duplicated flat arrays.
// Texcoords are emitted only if any face references one; normals are
// generated when the file has none.
func buildMeshFromOBJ(name string, faces []objFace, positions, normals []math.Vec3, uvs [][2]float32) MeshData {
	type key struct{ v, vt, vn int }
	vertMap := map[key]uint32{}

	hasUV := false
	hasNormals := false
	for _, f := range faces {
		for c := 0; c < 3; c++ {
			hasUV = hasUV || f.vtIdx[c] >= 0
			hasNormals = hasNormals || f.vnIdx[c] >= 0
		}
	}

	var pos, nrm, tex []float32
	var indices []uint32
	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			if idx, ok := vertMap[k]; ok {
				indices = append(indices, idx)
				continue
			}
			idx := uint32(len(pos) / 3)
			p := positions[k.v]
			pos = append(pos, p.X, p.Y, p.Z)
			if hasNormals {
				n := math.Vec3Up
				if k.vn >= 0 {
					n = normals[k.vn]
				}
				nrm = append(nrm, n.X, n.Y, n.Z)
			}
			if hasUV {
				var uv [2]float32
				if k.vt >= 0 {
					uv = uvs[k.vt]
				}
				tex = append(tex, uv[0], uv[1])
			}
			vertMap[k] = idx
			indices = append(indices, idx)
		}
	}

	if !hasNormals {
		nrm = generateNormals(pos, indices)
	}

	return MeshData{
		Name:      name,
		Positions: pos,
		Normals:   nrm,
		Texcoords: tex,
		Indices:   indices,
	}
}

// generateNormals computes area-weighted vertex normals.
func generateNormals(pos []float32, indices []uint32) []float32 {
	at := func(i uint32) math.Vec3 { return math.Vec3FromSlice(pos[i*3 : i*3+3]) }
	accum := make([]math.Vec3, len(pos)/3)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := at(i0)
		n := at(i1).Sub(v0).Cross(at(i2).Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}

	out := make([]float32, 0, len(pos))
	for _, n := range accum {
		n = n.Normalize()
		out = append(out, n.X, n.Y, n.Z)
	}
	return out
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]MaterialDesc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]MaterialDesc{}
	var cur string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "newmtl" {
			if len(fields) > 1 {
				cur = fields[1]
				mats[cur] = defaultMaterial(cur)
			}
			continue
		}
		m, ok := mats[cur]
		if !ok {
			continue
		}

		switch fields[0] {
		case "Kd":
			if len(fields) >= 4 {
				if c, err := parseVec3(fields[1:4]); err == nil {
					m.Diffuse = core.Color{R: c.X, G: c.Y, B: c.Z, A: 1}
				}
			}
		case "Ks":
			if len(fields) >= 4 {
				if c, err := parseVec3(fields[1:4]); err == nil {
					m.Specular = c
				}
			}
		case "map_Kd":
			if len(fields) >= 2 {
				// The file name is the last field; options come first.
				texPath := filepath.Join(dir, fields[len(fields)-1])
				tex, err := scene.LoadTexture(texPath, true)
				if err != nil {
					slog.Warn("mtl: colour texture unavailable", "material", cur, "error", err)
					break
				}
				m.ColorTexture = tex
			}
		}
		mats[cur] = m
	}

	return mats, scanner.Err()
}
