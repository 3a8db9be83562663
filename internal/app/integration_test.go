package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filecopier/internal/domain"
	osfs "filecopier/internal/infra/fs"
	"filecopier/internal/logging"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), "_copy.log") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

var sampleTree = map[string]string{
	"a.txt":          "alpha",
	"docs/b.txt":     "bravo",
	"docs/deep/c.md": "charlie",
	"draft_d.txt":    "delta",
}

func TestRunCopyKeepStructureOnDisk(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	writeTree(t, source, sampleTree)

	orch := Orchestrator{FS: osfs.OSFS{}}
	summary, err := orch.Run(context.Background(), domain.TransferRequest{
		SourceRoot:    source,
		DestRoot:      dest,
		Rule:          domain.NewFilterRule([]string{"txt"}, nil, []string{"draft"}),
		KeepStructure: true,
		LogEnabled:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, int64(len("alpha")+len("bravo")), summary.Bytes)
	assert.Equal(t, map[string]string{"a.txt": "alpha", "docs/b.txt": "bravo"}, readTree(t, dest))
	assert.Equal(t, sampleTree, readTree(t, source))

	for _, outcome := range summary.Outcomes {
		srcRel, err := filepath.Rel(source, outcome.Candidate.AbsolutePath)
		require.NoError(t, err)
		dstRel, err := filepath.Rel(dest, outcome.DestPath)
		require.NoError(t, err)
		assert.Equal(t, srcRel, dstRel)
	}

	require.NotEmpty(t, summary.LogPath)
	assert.Equal(t, dest, filepath.Dir(summary.LogPath))
	assert.True(t, strings.HasPrefix(filepath.Base(summary.LogPath), "out_"))
	data, err := os.ReadFile(summary.LogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, " - 复制文件: ")
	}
}

func TestRunCopyIsRepeatable(t *testing.T) {
	source := t.TempDir()
	writeTree(t, source, sampleTree)

	req := domain.TransferRequest{
		SourceRoot: source,
		Rule:       domain.NewFilterRule([]string{"txt", "md"}, nil, nil),
	}
	orch := Orchestrator{FS: osfs.OSFS{}}

	first := filepath.Join(t.TempDir(), "first")
	req.DestRoot = first
	_, err := orch.Run(context.Background(), req)
	require.NoError(t, err)

	second := filepath.Join(t.TempDir(), "second")
	req.DestRoot = second
	_, err = orch.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, readTree(t, first), readTree(t, second))
	assert.Equal(t, sampleTree, readTree(t, source))
}

func TestRunMoveRemovesSource(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeTree(t, source, sampleTree)

	orch := Orchestrator{FS: osfs.OSFS{}}
	summary, err := orch.Run(context.Background(), domain.TransferRequest{
		SourceRoot:    source,
		DestRoot:      dest,
		Rule:          domain.NewFilterRule([]string{"md"}, nil, nil),
		Mode:          domain.ModeMove,
		KeepStructure: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)

	_, err = os.Stat(filepath.Join(source, "docs", "deep", "c.md"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dest, "docs", "deep", "c.md"))
	require.NoError(t, err)
	assert.Equal(t, "charlie", string(data))
}

func TestRunNoMatchOnDiskWritesNotice(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "fresh")
	writeTree(t, source, sampleTree)
	start := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)

	orch := Orchestrator{FS: osfs.OSFS{}, Now: func() time.Time { return start }}
	summary, err := orch.Run(context.Background(), domain.TransferRequest{
		SourceRoot: source,
		DestRoot:   dest,
		Rule:       domain.NewFilterRule([]string{"pdf"}, nil, nil),
		LogEnabled: true,
	})
	require.NoError(t, err)

	assert.True(t, summary.NoMatch)
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, logging.RunLogName(dest, start), entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dest, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), logging.NoMatchNotice)
}

func TestEnumeratorDoesNotFollowDirectorySymlinks(t *testing.T) {
	source := t.TempDir()
	outside := t.TempDir()
	writeTree(t, source, map[string]string{"real.txt": "r"})
	writeTree(t, outside, map[string]string{"hidden.txt": "h"})
	if err := os.Symlink(outside, filepath.Join(source, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(source, "real.txt"), filepath.Join(source, "alias.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	candidates, err := Enumerator{FS: osfs.OSFS{}}.Enumerate(context.Background(), source)
	require.NoError(t, err)

	var rels []string
	for _, c := range candidates {
		rels = append(rels, c.RelativePath)
	}
	assert.ElementsMatch(t, []string{"real.txt", "alias.txt"}, rels)
}

func TestAnalyzeCountsExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt": "", "b.txt": "", "c.md": "", "noext": "",
	})

	analyzer := Analyzer{FS: osfs.OSFS{}}
	report, err := analyzer.Analyze(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	require.Len(t, report.Stats, 3)
	assert.Equal(t, domain.TypeStat{Extension: ".txt", Count: 2, Percentage: 50}, report.Stats[0])
	assert.Equal(t, domain.TypeStat{Extension: ".md", Count: 1, Percentage: 25}, report.Stats[1])
	assert.Equal(t, domain.TypeStat{Extension: domain.NoExtensionLabel, Count: 1, Percentage: 25}, report.Stats[2])
}

func TestAnalyzeEmptyDirectory(t *testing.T) {
	analyzer := Analyzer{FS: osfs.OSFS{}}
	report, err := analyzer.Analyze(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Stats)
}

func TestAnalyzeMissingDirectory(t *testing.T) {
	analyzer := Analyzer{FS: osfs.OSFS{}}
	_, err := analyzer.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestAnalyzeMergesCaseAndKeepsFirstSeenOnTies(t *testing.T) {
	mock := newMockFS("/d", "/d/1.PNG", "/d/2.go", "/d/3.png", "/d/4.GO", "/d/5.rs")
	analyzer := Analyzer{FS: mock}

	report, err := analyzer.Analyze(context.Background(), "/d")
	require.NoError(t, err)

	require.Len(t, report.Stats, 3)
	assert.Equal(t, ".png", report.Stats[0].Extension)
	assert.Equal(t, ".go", report.Stats[1].Extension)
	assert.Equal(t, ".rs", report.Stats[2].Extension)
	assert.InDelta(t, 40.0, report.Stats[0].Percentage, 1e-9)
}

func TestSymlinkedSourceRootIsWalked(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "real")
	writeTree(t, target, map[string]string{"a.txt": "a", "sub/b.txt": "b"})
	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	dest := filepath.Join(base, "out")

	orch := Orchestrator{FS: osfs.OSFS{}}
	summary, err := orch.Run(context.Background(), domain.TransferRequest{
		SourceRoot:    link,
		DestRoot:      dest,
		KeepStructure: true,
	})
	require.NoError(t, err)
	assert.False(t, summary.NoMatch)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, map[string]string{"a.txt": "a", "sub/b.txt": "b"}, readTree(t, dest))
	for _, outcome := range summary.Outcomes {
		assert.True(t, strings.HasPrefix(outcome.Candidate.AbsolutePath, link+string(filepath.Separator)))
	}

	analyzer := Analyzer{FS: osfs.OSFS{}}
	report, err := analyzer.Analyze(context.Background(), link)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
}

func TestRunWithInvalidSkipLeavesNoDestination(t *testing.T) {
	source := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	writeTree(t, source, sampleTree)

	orch := Orchestrator{FS: osfs.OSFS{}}
	_, err := orch.Run(context.Background(), domain.TransferRequest{
		SourceRoot: source,
		DestRoot:   dest,
		Skip:       []string{"[a"},
		LogEnabled: true,
	})
	require.Error(t, err)
	assert.NoDirExists(t, dest)
}
