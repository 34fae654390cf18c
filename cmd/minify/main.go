// Command minify writes minified copies of the templates and static assets
// into dist/, which the server prefers in production.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".css":  "text/css",
	".html": "text/html",
	".js":   "application/javascript",
}

func main() {
	var (
		inputFile  = flag.String("input", "", "Minify a single file instead of the whole tree")
		outputFile = flag.String("output", "", "Output path for -input")
		distDir    = flag.String("dist", "dist", "Output directory for tree mode")
	)
	flag.Parse()

	m := newMinifier()

	if *inputFile != "" {
		if *outputFile == "" {
			log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file>")
		}
		if _, err := minifyFile(m, *inputFile, *outputFile); err != nil {
			log.Fatalf("Failed to minify %s: %v", *inputFile, err)
		}
		fmt.Printf("Successfully minified %s -> %s\n", *inputFile, *outputFile)
		return
	}

	for _, dir := range []string{"templates", "static"} {
		n, err := minifyTree(m, dir, *distDir)
		if err != nil {
			log.Fatalf("Error minifying %s: %v", dir, err)
		}
		fmt.Printf("📦 %s: %d files\n", dir, n)
	}
	fmt.Printf("✅ Minification complete! Output is in %q\n", *distDir)
}

// newMinifier registers CSS, JS and HTML minifiers. HTML keeps Go template
// actions intact and keeps end tags, since partials open and close elements
// in different defines.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
		TemplateDelims:   html.GoTemplateDelims,
	})
	return m
}

// minifyTree mirrors srcDir under dstRoot. Files with unknown extensions
// are copied as-is. It returns the number of files written.
func minifyTree(m *minify.M, srcDir, dstRoot string) (int, error) {
	count := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, err := minifyFile(m, path, filepath.Join(dstRoot, path)); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// minifyFile minifies srcPath into dstPath and reports the size reduction.
func minifyFile(m *minify.M, srcPath, dstPath string) (float64, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return 0, err
	}

	out := src
	if mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(srcPath))]; ok {
		if out, err = m.Bytes(mediaType, src); err != nil {
			return 0, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dstPath, out, 0o644); err != nil {
		return 0, err
	}

	ratio := 0.0
	if len(src) > 0 {
		ratio = float64(len(src)-len(out)) / float64(len(src)) * 100
	}
	fmt.Printf("  %s: %d bytes → %d bytes (%.1f%% reduction)\n", srcPath, len(src), len(out), ratio)
	return ratio, nil
}
