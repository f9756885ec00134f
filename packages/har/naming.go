package har

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// stemFor maps a request URL, plus a GraphQL operation name when there is
// one, to a path under root without the numeric suffix. The URL is cleaned
// as a rooted path so it can never climb out of root. An empty URL maps to
// files named directly inside root.
func stemFor(root, url, operation string) string {
	rel := url
	if operation != "" {
		rel = url + "/" + operation
	}
	cleaned := path.Clean("/" + rel)
	if cleaned == "/" {
		return root + string(filepath.Separator)
	}
	return filepath.Join(root, filepath.FromSlash(cleaned))
}

// claimFile creates the first free <stem>_<n>.json, counting from zero.
// Creation is exclusive, so an existing file is never overwritten even when
// another process writes into the same directory.
func claimFile(stem string) (*os.File, string, error) {
	if err := os.MkdirAll(filepath.Dir(stem), 0755); err != nil {
		return nil, "", err
	}
	for n := 0; ; n++ {
		name := fmt.Sprintf("%s_%d.json", stem, n)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
}
