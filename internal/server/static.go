package server

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
)

// staticHandler serves files from dir and falls back to index.html for any
// path that does not exist, so client-side routes load the app
func staticHandler(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	files := http.FileServer(root)

	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		f, err := root.Open(path.Clean("/" + r.URL.Path))

		if errors.Is(err, fs.ErrNotExist) {
			http.ServeFile(w, r, index)
			return
		}

		if err == nil {
			f.Close()
		}

		files.ServeHTTP(w, r)
	}
}
