package flowchart

// Collection is the store collection holding flowcharts.
const Collection = "flowcharts"

// Step is one box of a flowchart.
type Step struct {
	Description string `json:"description"`
}

// Flowchart is an ordered list of steps.
type Flowchart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Draft is the editable part of a flowchart.
type Draft struct {
	Name  string
	Steps []Step
}

// NewDraft returns the draft for a new flowchart, with one empty step to
// fill in.
func NewDraft() Draft {
	return Draft{Steps: []Step{{}}}
}

// DraftOf returns the draft for editing fc.
func DraftOf(fc Flowchart) Draft {
	steps := append([]Step(nil), fc.Steps...)
	if len(steps) == 0 {
		steps = []Step{{}}
	}
	return Draft{Name: fc.Name, Steps: steps}
}
