package model

import "fmt"

// IssueState selects which issues are requested from GitHub.
type IssueState string

const (
	IssueStateAll    IssueState = "all"
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// DefaultIssueState is used when no filter has been chosen.
const DefaultIssueState = IssueStateOpen

// IssueStates lists the filter values in display order.
var IssueStates = []IssueState{IssueStateAll, IssueStateOpen, IssueStateClosed}

// ParseIssueState converts a query value into an IssueState. An empty string
// yields DefaultIssueState.
func ParseIssueState(s string) (IssueState, error) {
	switch IssueState(s) {
	case "":
		return DefaultIssueState, nil
	case IssueStateAll, IssueStateOpen, IssueStateClosed:
		return IssueState(s), nil
	default:
		return "", fmt.Errorf("invalid issue state %q: expected all, open or closed", s)
	}
}
