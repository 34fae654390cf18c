package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCSSMinification checks that CSS is minified as expected
func TestCSSMinification(t *testing.T) {
	input := `
		body {
			color: #fff;
			margin: 0  ;
		}
	`
	got, err := newMinifier().String("text/css", input)
	require.NoError(t, err)
	assert.Equal(t, `body{color:#fff;margin:0}`, got)
}

// TestJSMinification checks that JavaScript is minified as expected
func TestJSMinification(t *testing.T) {
	input := `
		function add(a, b) {
			return a + b;
		}
	`
	got, err := newMinifier().String("application/javascript", input)
	require.NoError(t, err)
	assert.Equal(t, `function add(e,t){return e+t}`, got)
}

func TestHTMLMinificationKeepsTemplateActions(t *testing.T) {
	input := `{{define "card"}}
	<button class="card"   data-index="{{.Index}}">
		{{if .Revealed}}{{.Symbol}}{{else}}?{{end}}
	</button>
{{end}}`
	got, err := newMinifier().String("text/html", input)
	require.NoError(t, err)
	for _, action := range []string{`{{define "card"}}`, `{{.Index}}`, `{{if .Revealed}}`, `{{end}}`, `</button>`} {
		assert.Contains(t, got, action)
	}
	assert.Less(t, len(got), len(input), "output should shrink")
}

func TestMinifyTree(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	files := map[string]string{
		"css/site.css": "a {  color : red ; }",
		"js/gate.js":   "const  x = 1 ;",
		"img/logo.txt": "keep   me",
	}
	for name, body := range files {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	n, err := minifyTree(newMinifier(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, len(files), n)

	css, err := os.ReadFile(filepath.Join(dst, src, "css/site.css"))
	require.NoError(t, err)
	assert.Equal(t, "a{color:red}", string(css))

	raw, err := os.ReadFile(filepath.Join(dst, src, "img/logo.txt"))
	require.NoError(t, err)
	assert.Equal(t, files["img/logo.txt"], string(raw), "unknown extensions are copied verbatim")
}

func TestMinifyFileMissingSource(t *testing.T) {
	_, err := minifyFile(newMinifier(), filepath.Join(t.TempDir(), "nope.css"), filepath.Join(t.TempDir(), "out.css"))
	assert.Error(t, err)
}
