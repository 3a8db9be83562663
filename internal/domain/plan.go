package domain

// PlanItem pairs a qualifying candidate with its destination path.
type PlanItem struct {
	Candidate FileCandidate
	DestPath  string
}

// TransferPlan is the filtered, mapped work list of a run. Enumerated counts
// every file seen before filtering.
type TransferPlan struct {
	Request    TransferRequest
	Items      []PlanItem
	Enumerated int
}

func (p TransferPlan) Empty() bool {
	return len(p.Items) == 0
}
