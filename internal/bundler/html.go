package bundler

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
)

var loaderHTML = template.Must(template.New("loader").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Playground loader</title>
</head>
<body>
<div id="root"></div>
<script src="{{ .Script }}"></script>
</body>
</html>
`))

// WriteLoaderHTML writes the page that loads the bundle into the playground
// iframe. It is a no-op when opts has no HTMLFile.
func WriteLoaderHTML(opts Options) error {
	if opts.HTMLFile == "" {
		return nil
	}

	script, err := filepath.Rel(filepath.Dir(opts.HTMLFile), opts.Outfile)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := loaderHTML.Execute(buf, map[string]string{"Script": "./" + filepath.ToSlash(script)}); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.HTMLFile), 0o755); err != nil {
		return err
	}

	return os.WriteFile(opts.HTMLFile, buf.Bytes(), 0o644) //nolint:gosec
}
