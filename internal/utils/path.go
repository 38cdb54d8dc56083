package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// IsCorpusPath reports whether path is a corpus file or a directory holding chunk
// or text corpus files.
func IsCorpusPath(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	for _, pattern := range []string{"dict_*.bin", "*.txt"} {
		if matches, err := filepath.Glob(filepath.Join(path, pattern)); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

// DataPathCandidates lists where a corpus named by path may live, most specific first:
// the path as given, then relative to the executable, then under configDir.
func DataPathCandidates(path, configDir string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}

	candidates := []string{path}
	if cwd, err := os.Getwd(); err == nil {
		candidates[0] = filepath.Join(cwd, path)
	}
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(execDir, path),
			filepath.Join(filepath.Dir(execDir), path))
	}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, path))
	}
	return candidates
}

// ResolveDataPath returns the first candidate holding a corpus. When none does, the
// path is returned unchanged so the loader reports the error against what the user typed.
func ResolveDataPath(path, configDir string) string {
	for _, candidate := range DataPathCandidates(path, configDir) {
		if IsCorpusPath(candidate) {
			log.Debugf("Found corpus at %s", candidate)
			return candidate
		}
		log.Debugf("Corpus candidate not valid: %s", candidate)
	}
	return path
}
