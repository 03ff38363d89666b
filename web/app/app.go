// Package app serves the prebuilt reader bundle. Assets land in dist/ at
// build time and are embedded; when no bundle has been built, a placeholder
// page is served instead.
package app

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist
var distFS embed.FS

const placeholder = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Folio</title>
  <style>
    body { font-family: system-ui, sans-serif; display: grid; place-items: center; min-height: 100vh; margin: 0; }
    main { text-align: center; color: #444; }
  </style>
</head>
<body>
  <main>
    <h1>Folio</h1>
    <p>No reader bundle has been built. The API is available under <code>/api</code>.</p>
  </main>
</body>
</html>
`

// NewHandler creates the web app handler, mounted at the server root.
func NewHandler() (http.Handler, error) {
	dist, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil, err
	}

	return router(dist), nil
}

func router(dist fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(dist))
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fs.Stat(dist, "index.html"); err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(placeholder))
			return
		}
		fileServer.ServeHTTP(w, r)
	})

	mux.Handle("GET /", fileServer)
	return mux
}
