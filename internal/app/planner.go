package app

import (
	"context"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
	appErrors "filecopier/internal/errors"
	"filecopier/internal/logging"
)

// Planner turns a request into the filtered, mapped list of transfers
// without touching the filesystem beyond reading it.
type Planner struct {
	FS     FileSystem
	Logger logging.Logger
}

// Validate checks the request paths and skip patterns and returns a copy
// with both roots made absolute. Problems are configuration errors.
func (p *Planner) Validate(req domain.TransferRequest) (domain.TransferRequest, error) {
	if p.FS == nil {
		return req, errors.New("planner requires FS")
	}
	if strings.TrimSpace(req.SourceRoot) == "" || strings.TrimSpace(req.DestRoot) == "" {
		return req, appErrors.New(appErrors.InvalidConfig, "request", "", "source and destination are required")
	}

	source, err := filepath.Abs(req.SourceRoot)
	if err != nil {
		return req, appErrors.Wrap(appErrors.InvalidConfig, "resolve", req.SourceRoot, err)
	}
	dest, err := filepath.Abs(req.DestRoot)
	if err != nil {
		return req, appErrors.Wrap(appErrors.InvalidConfig, "resolve", req.DestRoot, err)
	}

	info, err := p.FS.Stat(source)
	if err != nil {
		return req, appErrors.Wrap(appErrors.NotFound, "stat", source, err)
	}
	if !info.IsDir() {
		return req, appErrors.New(appErrors.NotFound, "stat", source, "not a directory")
	}

	if info, err := p.FS.Stat(dest); err == nil && !info.IsDir() {
		return req, appErrors.New(appErrors.InvalidConfig, "destination", dest, "exists and is not a directory")
	}
	if source == dest {
		return req, appErrors.New(appErrors.InvalidConfig, "destination", dest, "is the source directory")
	}
	if err := validateSkip(req.Skip); err != nil {
		return req, err
	}

	req.SourceRoot = source
	req.DestRoot = dest
	return req, nil
}

// Plan enumerates the source tree, applies the filter rule and maps each
// qualifying file to its destination. The destination directory is never
// descended when it lies inside the source tree.
func (p *Planner) Plan(ctx context.Context, req domain.TransferRequest) (domain.TransferPlan, error) {
	if p.FS == nil {
		return domain.TransferPlan{}, errors.New("planner requires FS")
	}

	stop := p.Logger.Measure("Planning transfer")
	defer stop()

	enumerator := Enumerator{
		FS:          p.FS,
		Logger:      p.Logger,
		Skip:        req.Skip,
		ExcludeDirs: []string{req.DestRoot},
	}
	candidates, err := enumerator.Enumerate(ctx, req.SourceRoot)
	if err != nil {
		if appErrors.KindOf(err) != "" {
			return domain.TransferPlan{}, err
		}
		return domain.TransferPlan{}, appErrors.Wrap(appErrors.IOFailure, "walk", req.SourceRoot, err)
	}

	items := make([]domain.PlanItem, 0, len(candidates))
	for _, candidate := range candidates {
		if !req.Rule.Qualifies(filepath.Base(candidate.AbsolutePath)) {
			continue
		}
		items = append(items, domain.PlanItem{
			Candidate: candidate,
			DestPath:  MapDestination(candidate, req.DestRoot, req.KeepStructure),
		})
	}

	p.Logger.Verbosef("Found %d files in %s, %d qualify", len(candidates), req.SourceRoot, len(items))

	return domain.TransferPlan{
		Request:    req,
		Items:      items,
		Enumerated: len(candidates),
	}, nil
}
