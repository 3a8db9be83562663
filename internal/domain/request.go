package domain

// Mode selects between copying and moving.
type Mode int

const (
	ModeCopy Mode = iota
	ModeMove
)

func (m Mode) String() string {
	if m == ModeMove {
		return "move"
	}
	return "copy"
}

// Verb is the word used for the mode in operation log lines.
func (m Mode) Verb() string {
	if m == ModeMove {
		return "移动"
	}
	return "复制"
}

// TransferRequest fully describes one batch run.
type TransferRequest struct {
	SourceRoot    string
	DestRoot      string
	Rule          FilterRule
	Mode          Mode
	KeepStructure bool
	LogEnabled    bool
	// Skip holds doublestar patterns matched against slash-separated
	// relative paths during enumeration.
	Skip []string
}

// FileCandidate is one file found under SourceRoot.
type FileCandidate struct {
	AbsolutePath string
	RelativePath string
}

type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusFailure {
		return "failure"
	}
	return "success"
}

// TransferOutcome is the result of transferring one qualifying file.
type TransferOutcome struct {
	Candidate FileCandidate
	DestPath  string
	Status    Status
	Err       error
	Bytes     int64
}

func (o TransferOutcome) OK() bool {
	return o.Status == StatusSuccess
}

// ErrorMessage returns the failure text, or "" for a success.
func (o TransferOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Summary is the final tally of a run.
type Summary struct {
	Succeeded int
	Failed    int
	Total     int
	Bytes     int64
	NoMatch   bool
	LogPath   string
	Outcomes  []TransferOutcome
}
