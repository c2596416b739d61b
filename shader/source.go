package shader

import (
	"context"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"
)

// Source supplies shader text by path. The text is opaque to this package.
type Source interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// FSSource reads shader text from a file system, such as shaders.FS or
// os.DirFS for an on-disk override directory.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.FS, path)
	if err != nil {
		return "", fmt.Errorf("read shader %s: %w", path, err)
	}
	return string(data), nil
}

// Pair is the source text of one vertex/fragment program.
type Pair struct {
	Vertex   string
	Fragment string
}

// FetchPair retrieves both stages concurrently.
func FetchPair(ctx context.Context, src Source, vertexPath, fragmentPath string) (Pair, error) {
	var p Pair
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.Vertex, err = src.Fetch(ctx, vertexPath)
		return err
	})
	g.Go(func() error {
		var err error
		p.Fragment, err = src.Fetch(ctx, fragmentPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return Pair{}, err
	}
	return p, nil
}
