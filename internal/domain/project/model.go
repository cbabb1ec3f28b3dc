package project

// Collection is the store collection holding projects.
const Collection = "projects"

// Project groups tasks. Tasks reference it by id with no cascade.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Draft is the editable part of a project.
type Draft struct {
	Name string `json:"name"`
}

// DraftOf returns the draft for editing p.
func DraftOf(p Project) Draft {
	return Draft{Name: p.Name}
}
