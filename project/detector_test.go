package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

func TestDetector_Detect(t *testing.T) {
	ctx := context.Background()

	t.Run("javascript project", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"package.json": `{"name": "billing-api", "version": "1.0.0"}`,
			"src/app.ts":   `export {};`,
		})

		p, err := New().Detect(ctx, filepath.Join(dir, "src", "app.ts"))
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, KindJavaScript, p.Kind)
		assert.Equal(t, "billing-api", p.Name)
		assert.Equal(t, dir, p.Root)
		assert.Equal(t, "src/app.ts", p.RelativePath)
		assert.False(t, p.HasTypeScript)
	})

	t.Run("typescript project", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"package.json":  `{"name": "web"}`,
			"tsconfig.json": `{}`,
		})

		p, err := New().Detect(ctx, dir)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, KindJavaScript, p.Kind)
		assert.True(t, p.HasTypeScript)
	})

	t.Run("nested javascript root wins over repository root", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"go.mod":               "module github.com/acme/platform\n",
			"web/package.json":     `{"name": "platform-web"}`,
			"web/src/pages/app.ts": `export {};`,
		})

		p, err := New().Detect(ctx, filepath.Join(dir, "web", "src", "pages", "app.ts"))
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, KindJavaScript, p.Kind)
		assert.Equal(t, "platform-web", p.Name)
		assert.Equal(t, filepath.Join(dir, "web"), p.Root)
	})

	t.Run("go project", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"go.mod":  "module github.com/acme/api\n\ngo 1.24\n",
			"main.go": "package main\n",
		})

		p, err := New().Detect(ctx, dir)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, KindGo, p.Kind)
		assert.Equal(t, "github.com/acme/api", p.Name)
	})

	t.Run("package name falls back to directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"package.json": `{`,
		})

		p, err := New().Detect(ctx, dir)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, KindJavaScript, p.Kind)
		assert.Equal(t, filepath.Base(dir), p.Name)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := New().Detect(ctx, filepath.Join(t.TempDir(), "absent"))
		assert.NotNil(t, err)
	})
}
