// Package input discovers and reads the Ruby sources a check run operates on.
package input

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Artifact is one Ruby source file queued for analysis.
type Artifact struct {
	Path    string
	Content []byte
}

// DefaultExtensions are the file extensions treated as Ruby source when
// walking directories.
var DefaultExtensions = []string{".rb", ".rake", ".gemspec"}

// rubyBasenames are extension-less files that are Ruby by convention.
var rubyBasenames = map[string]bool{
	"Rakefile": true,
	"Gemfile":  true,
}

type Handler struct {
	exts map[string]bool
}

// NewHandler builds a Handler recognizing the given extensions, or
// DefaultExtensions when none are given.
func NewHandler(extensions []string) *Handler {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Handler{exts: exts}
}

// IsRubyPath reports whether path looks like a Ruby source file.
func (h *Handler) IsRubyPath(path string) bool {
	if rubyBasenames[filepath.Base(path)] {
		return true
	}
	return h.exts[strings.ToLower(filepath.Ext(path))]
}

// ReadFiles reads explicitly named files. No extension filtering is applied;
// naming a file is taken as intent to check it. Files that are not valid
// UTF-8 are skipped with a warning.
func (h *Handler) ReadFiles(paths []string) ([]Artifact, error) {
	var artifacts []Artifact
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			slog.Warn("skipping file with invalid UTF-8", "path", p)
			continue
		}
		artifacts = append(artifacts, Artifact{Path: p, Content: data})
	}
	return artifacts, nil
}

// ReadDirectory walks dir and reads every Ruby file found. Hidden
// directories are pruned.
func (h *Handler) ReadDirectory(dir string) ([]Artifact, error) {
	var artifacts []Artifact
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !h.IsRubyPath(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			slog.Warn("skipping file with invalid UTF-8", "path", path)
			return nil
		}
		artifacts = append(artifacts, Artifact{Path: path, Content: data})
		return nil
	})
	return artifacts, err
}

// ReadPaths resolves a mix of files and directories.
func (h *Handler) ReadPaths(paths []string) ([]Artifact, error) {
	var artifacts []Artifact
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := h.ReadDirectory(p)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, found...)
			continue
		}
		found, err := h.ReadFiles([]string{p})
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, found...)
	}
	return artifacts, nil
}
