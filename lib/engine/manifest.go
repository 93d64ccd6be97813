package engine

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/tidwall/gjson"
)

// manifest lists the bundles a page needs, read from the "entrypoints" array
// of a webpack-style asset-manifest.json.
type manifest struct {
	scripts []string
	styles  []string
}

func loadManifest(fsys fs.FS, path, buildPath string) (*manifest, error) {
	if path == "" {
		return nil, ErrNoManifest
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %q is not valid JSON", ErrInvalidManifest, path)
	}
	entries := gjson.GetBytes(data, "entrypoints")
	if !entries.IsArray() {
		return nil, fmt.Errorf("%w: %q has no entrypoints array", ErrInvalidManifest, path)
	}

	m := &manifest{}
	for _, entry := range entries.Array() {
		p := entry.String()
		switch {
		case strings.HasSuffix(p, ".js"):
			m.scripts = append(m.scripts, joinBuildPath(buildPath, p))
		case strings.HasSuffix(p, ".css"):
			m.styles = append(m.styles, joinBuildPath(buildPath, p))
		}
	}
	return m, nil
}

func joinBuildPath(buildPath, p string) string {
	if buildPath == "" {
		return p
	}
	return strings.TrimSuffix(buildPath, "/") + "/" + strings.TrimPrefix(p, "/")
}
