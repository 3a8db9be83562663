package app

import (
	"path/filepath"

	"filecopier/internal/domain"
)

// MapDestination returns where candidate lands under destRoot: flat by base
// name, or mirroring its path relative to the source root.
func MapDestination(candidate domain.FileCandidate, destRoot string, keepStructure bool) string {
	if keepStructure {
		return filepath.Join(destRoot, candidate.RelativePath)
	}
	return filepath.Join(destRoot, filepath.Base(candidate.AbsolutePath))
}
