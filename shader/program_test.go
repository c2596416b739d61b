package shader

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shadow-renderer/gpu"
	"shadow-renderer/gpu/gputest"
)

const (
	testVert = `in vec3 aVertexPosition; uniform mat4 uModelMatrix;`
	testFrag = `uniform vec3 uKs; out vec4 fragColor;`
)

func TestCompileResolvesLocations(t *testing.T) {
	dev := gputest.New()
	p, err := Compile(dev, testVert, testFrag,
		[]string{"uModelMatrix", "uKs", "uMissing"},
		[]string{"aVertexPosition", "aTextureCoord"})
	require.NoError(t, err)

	assert.True(t, p.Uniform("uModelMatrix").Valid())
	assert.True(t, p.Uniform("uKs").Valid())
	assert.True(t, p.Attrib("aVertexPosition").Valid())

	// Declared by the caller but absent from the program.
	assert.Equal(t, gpu.InvalidLocation, p.Uniform("uMissing"))
	assert.Equal(t, gpu.InvalidLocation, p.Attrib("aTextureCoord"))
	// Never requested.
	assert.Equal(t, gpu.InvalidLocation, p.Uniform("uViewMatrix"))
}

func TestCompileDeletesStagesAfterLink(t *testing.T) {
	dev := gputest.New()
	_, err := Compile(dev, testVert, testFrag, nil, nil)
	require.NoError(t, err)

	ops := dev.Ops()
	assert.Equal(t, []string{"CompileShader", "CompileShader", "LinkProgram", "DeleteShader", "DeleteShader"}, ops)
}

func TestCompileErrorCarriesSourceAndLog(t *testing.T) {
	dev := gputest.New()
	dev.CompileFailures[gpu.FragmentStage] = "0:1: syntax error"

	p, err := Compile(dev, testVert, testFrag, nil, nil)
	assert.Nil(t, p)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.FragmentStage, ce.Stage)
	assert.Equal(t, testFrag, ce.Source)
	assert.Equal(t, "0:1: syntax error", ce.Log)
	assert.Contains(t, err.Error(), "fragment")

	// The vertex stage that did compile is released.
	assert.Contains(t, dev.Ops(), "DeleteShader")
	assert.NotContains(t, dev.Ops(), "LinkProgram")
}

func TestLinkError(t *testing.T) {
	dev := gputest.New()
	dev.LinkFailure = "varying mismatch"

	_, err := Compile(dev, testVert, testFrag, nil, nil)
	var le *LinkError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "varying mismatch", le.Log)
}

func TestUseAndRelease(t *testing.T) {
	dev := gputest.New()
	p, err := Compile(dev, testVert, testFrag, nil, nil)
	require.NoError(t, err)

	dev.Reset()
	p.Use()
	p.Release()
	p.Release()
	assert.Equal(t, []string{"UseProgram", "DeleteProgram"}, dev.Ops())
}

func TestFetchPair(t *testing.T) {
	src := FSSource{FS: fstest.MapFS{
		"a.vert": {Data: []byte("vertex")},
		"a.frag": {Data: []byte("fragment")},
	}}

	pair, err := FetchPair(context.Background(), src, "a.vert", "a.frag")
	require.NoError(t, err)
	assert.Equal(t, Pair{Vertex: "vertex", Fragment: "fragment"}, pair)

	_, err = FetchPair(context.Background(), src, "a.vert", "missing.frag")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing.frag")
}

func TestFetchHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := FSSource{FS: fstest.MapFS{"a.vert": {Data: []byte("x")}}}
	_, err := src.Fetch(ctx, "a.vert")
	assert.ErrorIs(t, err, context.Canceled)
}
