package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
)

const (
	runLogTimeLayout = "2006-01-02 15:04:05"
	runLogNameLayout = "20060102_150405"

	// NoMatchNotice is recorded when a run finds nothing to transfer.
	NoMatchNotice = "未找到匹配的文件"
)

// RunLog appends one line per transfer outcome to a log file inside the
// destination directory. A nil *RunLog is valid and records nothing.
type RunLog struct {
	file *os.File
	zlog zerolog.Logger
	mode domain.Mode
	path string
	now  func() time.Time
}

// RunLogName returns the file name for a run that started at start.
func RunLogName(destDir string, start time.Time) string {
	base := filepath.Base(filepath.Clean(destDir))
	return fmt.Sprintf("%s_%s_copy.log", base, start.Format(runLogNameLayout))
}

// OpenRunLog creates the log file for a run. destDir must already exist.
func OpenRunLog(destDir string, mode domain.Mode, start time.Time) (*RunLog, error) {
	path := filepath.Join(destDir, RunLogName(destDir, start))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Errorf("opening run log: %w", err)
	}

	writer := zerolog.ConsoleWriter{
		Out:        file,
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("%v -", i)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}

	return &RunLog{
		file: file,
		zlog: zerolog.New(writer),
		mode: mode,
		path: path,
		now:  time.Now,
	}, nil
}

// Path is the log file location, or "" when logging is disabled.
func (l *RunLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record writes the line for one outcome.
func (l *RunLog) Record(outcome domain.TransferOutcome) {
	if l == nil {
		return
	}
	if outcome.OK() {
		l.zlog.Info().Str(zerolog.TimestampFieldName, l.stamp()).Msg(SuccessLine(l.mode, outcome))
		return
	}
	l.zlog.Error().Str(zerolog.TimestampFieldName, l.stamp()).Msg(FailureLine(outcome))
}

// Notice writes a free-form line.
func (l *RunLog) Notice(msg string) {
	if l == nil {
		return
	}
	l.zlog.Info().Str(zerolog.TimestampFieldName, l.stamp()).Msg(msg)
}

func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *RunLog) stamp() string {
	return l.now().Format(runLogTimeLayout)
}

// SuccessLine renders a successful transfer, e.g. "复制文件: a -> b".
func SuccessLine(mode domain.Mode, outcome domain.TransferOutcome) string {
	return fmt.Sprintf("%s文件: %s -> %s", mode.Verb(), outcome.Candidate.AbsolutePath, outcome.DestPath)
}

// FailureLine renders a failed transfer.
func FailureLine(outcome domain.TransferOutcome) string {
	return fmt.Sprintf("处理文件 %s 时出错: %s", outcome.Candidate.AbsolutePath, outcome.ErrorMessage())
}
