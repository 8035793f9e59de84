// Package project locates the project that contains a scan target and
// extracts its identity from build manifests. The scan command uses it to
// warn when a target does not look like a JavaScript or TypeScript project.
package project

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Kind labels the ecosystem a project root belongs to.
type Kind string

const (
	KindJavaScript Kind = "javascript"
	KindGo         Kind = "go"
	KindJava       Kind = "java"
	KindPython     Kind = "python"
	KindRust       Kind = "rust"
	KindRuby       Kind = "ruby"
	KindPHP        Kind = "php"
	KindVCS        Kind = "vcs"
	KindUnknown    Kind = "unknown"
)

// Project describes the detected project containing a scan target.
type Project struct {
	Root          string // absolute path of the project root
	Kind          Kind   // ecosystem implied by the root marker
	Name          string // from the build manifest, directory name otherwise
	RelativePath  string // scan target relative to the root
	HasTypeScript bool   // tsconfig.json present at the root
}

// markers map root marker files to the project kind they imply, in probe
// order. package.json comes first: a JavaScript root often sits inside a
// repository that also carries other manifests.
var markers = []struct {
	file string
	kind Kind
}{
	{"package.json", KindJavaScript},
	{"tsconfig.json", KindJavaScript},
	{"go.mod", KindGo},
	{"pom.xml", KindJava},
	{"build.gradle", KindJava},
	{"pyproject.toml", KindPython},
	{"requirements.txt", KindPython},
	{"Cargo.toml", KindRust},
	{"Gemfile", KindRuby},
	{"composer.json", KindPHP},
	{".git", KindVCS},
}

// Detector identifies project roots for scan targets.
type Detector struct {
	fs afs.Service
}

// New creates a project detector instance.
func New() *Detector {
	return &Detector{fs: afs.New()}
}

// Detect locates the project containing target, which may name a file or a
// directory. When no marker is found up the tree the target itself is
// reported as an unknown project.
func (d *Detector) Detect(ctx context.Context, target string) (*Project, error) {
	absPath, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	root, kind := findRoot(startDir)
	result := &Project{Root: absPath, Kind: KindUnknown}
	if root != "" {
		result.Root = root
		result.Kind = kind
	}
	if relative, err := filepath.Rel(result.Root, absPath); err == nil {
		result.RelativePath = filepath.ToSlash(relative)
	} else {
		result.RelativePath = filepath.Base(absPath)
	}
	if _, err := os.Stat(filepath.Join(result.Root, "tsconfig.json")); err == nil {
		result.HasTypeScript = true
	}
	result.Name = d.projectName(ctx, result)
	return result, nil
}

// findRoot searches up the directory tree for the first directory carrying a
// project marker.
func findRoot(startDir string) (string, Kind) {
	dir := startDir
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker.file)); err == nil {
				return dir, marker.kind
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// reached the filesystem root with no match
			break
		}
		dir = parent
	}
	return "", KindUnknown
}

// projectName extracts the project name from the root manifest, falling back
// to the root directory name.
func (d *Detector) projectName(ctx context.Context, p *Project) string {
	switch p.Kind {
	case KindJavaScript:
		if name := d.packageName(ctx, filepath.Join(p.Root, "package.json")); name != "" {
			return name
		}
	case KindGo:
		if name := d.goModuleName(ctx, filepath.Join(p.Root, "go.mod")); name != "" {
			return name
		}
	}
	return filepath.Base(p.Root)
}

var packageNamePattern = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)

// packageName extracts the "name" field from package.json. Not a full JSON
// parser but enough for the top-level name field; anything malformed falls
// back to the directory name.
func (d *Detector) packageName(ctx context.Context, path string) string {
	data, err := d.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return ""
	}
	matches := packageNamePattern.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

// goModuleName parses go.mod for the module path.
func (d *Detector) goModuleName(ctx context.Context, path string) string {
	data, err := d.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return ""
	}
	mod, err := modfile.Parse(path, data, nil)
	if err != nil || mod.Module == nil {
		return ""
	}
	return mod.Module.Mod.Path
}
