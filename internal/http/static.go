package httpx

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// NewSPAHandler serves files from fsys and falls back to index.html for
// client-side routes. Requests for missing files with an extension get 404.
func NewSPAHandler(fsys fs.FS) http.Handler {
	files := http.FileServerFS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		if _, err := fs.Stat(fsys, name); err == nil {
			files.ServeHTTP(w, r)
			return
		} else if !errors.Is(err, fs.ErrNotExist) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, fsys, "index.html")
	})
}

// NewSPAHandlerFromDir is NewSPAHandler over a directory on disk.
func NewSPAHandlerFromDir(dir string) http.Handler {
	return NewSPAHandler(os.DirFS(dir))
}

// guardPages applies guard to page navigations. Asset requests, recognised by
// a file extension, bypass it so the login page can load its bundle.
func guardPages(guard func(http.Handler) http.Handler, app http.Handler) http.Handler {
	guarded := guard(app)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path.Ext(r.URL.Path) != "" {
			app.ServeHTTP(w, r)
			return
		}
		guarded.ServeHTTP(w, r)
	})
}

func notFoundJSON(w http.ResponseWriter, r *http.Request) {
	WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("no route for " + r.URL.Path)})
}
