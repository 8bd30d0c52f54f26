package compare

import (
	"fmt"
	"strings"
)

// Policy decides how a missing baseline is reported
type Policy string

const (
	// PolicyUnchanged reports the first audit of a site as unchanged
	PolicyUnchanged Policy = "unchanged"
	// PolicyChanged reports the first audit of a site as a change
	PolicyChanged Policy = "changed"
)

// ParsePolicy converts a configuration value into a Policy; empty selects PolicyUnchanged
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyUnchanged:
		return PolicyUnchanged, nil
	case PolicyChanged:
		return PolicyChanged, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, value)
	}
}

// Result is the outcome of comparing the current text against a baseline
type Result struct {
	// Changed reports whether the texts differ
	Changed bool `json:"changed"`
	// ChangedText is the full current text when Changed is true
	ChangedText string `json:"changed_text,omitempty"`
	// FirstRun reports that no baseline existed
	FirstRun bool `json:"first_run"`
}

// Comparator performs whole-document comparison
type Comparator struct {
	// FirstRun applies when the baseline is absent
	FirstRun Policy
}

// New returns a comparator using the given first-run policy
func New(policy Policy) Comparator {
	return Comparator{FirstRun: policy}
}

// Compare reports whether current differs from baseline by exact string
// equality. A nil baseline means no prior record exists.
func (c Comparator) Compare(baseline *string, current string) Result {
	if baseline == nil {
		if c.FirstRun == PolicyChanged {
			return Result{Changed: true, ChangedText: current, FirstRun: true}
		}

		return Result{FirstRun: true}
	}

	if *baseline == current {
		return Result{}
	}

	return Result{Changed: true, ChangedText: current}
}
