package app

import (
	"io/fs"

	"filecopier/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	MoveFile(src, dst string) error
}

// EventSink receives progress and log events from a run.
type EventSink interface {
	OnEvent(event domain.Event)
}

type SinkFunc func(event domain.Event)

func (f SinkFunc) OnEvent(event domain.Event) {
	f(event)
}

// MultiSink fans events out in order. Nil entries are skipped.
type MultiSink []EventSink

func (m MultiSink) OnEvent(event domain.Event) {
	for _, sink := range m {
		if sink != nil {
			sink.OnEvent(event)
		}
	}
}
