package app

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
	appErrors "filecopier/internal/errors"
	"filecopier/internal/logging"
)

// Analyzer reports how the files under a directory split by extension.
// It never modifies the tree.
type Analyzer struct {
	FS     FileSystem
	Logger logging.Logger
}

func (a *Analyzer) Analyze(ctx context.Context, dir string) (domain.TypeReport, error) {
	if a.FS == nil {
		return domain.TypeReport{}, errors.New("analyzer requires FS")
	}

	stop := a.Logger.Measure("Analyzing " + dir)
	defer stop()

	info, err := a.FS.Stat(dir)
	if err != nil {
		return domain.TypeReport{}, appErrors.Wrap(appErrors.NotFound, "stat", dir, err)
	}
	if !info.IsDir() {
		return domain.TypeReport{}, appErrors.New(appErrors.NotFound, "stat", dir, "not a directory")
	}

	candidates, err := Enumerator{FS: a.FS, Logger: a.Logger}.Enumerate(ctx, dir)
	if err != nil {
		return domain.TypeReport{}, appErrors.Wrap(appErrors.IOFailure, "walk", dir, err)
	}

	index := map[string]int{}
	var stats []domain.TypeStat
	for _, candidate := range candidates {
		label := extensionLabel(filepath.Base(candidate.AbsolutePath))
		pos, ok := index[label]
		if !ok {
			pos = len(stats)
			index[label] = pos
			stats = append(stats, domain.TypeStat{Extension: label})
		}
		stats[pos].Count++
	}

	total := len(candidates)
	for i := range stats {
		stats[i].Percentage = percentOf(stats[i].Count, total)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	return domain.TypeReport{
		Directory: dir,
		Total:     total,
		Stats:     stats,
	}, nil
}

func extensionLabel(name string) string {
	_, ext := domain.SplitExt(name)
	if ext == "" {
		return domain.NoExtensionLabel
	}
	return strings.ToLower(ext)
}

func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}
