package model

import "github.com/duyhunghd6/gdref-cli/internal/types"

// ProjectInfo describes the documented project.
type ProjectInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// NewProjectInfo copies the project fields of a dump.
func NewProjectInfo(raw types.RawProject) ProjectInfo {
	return ProjectInfo{Name: raw.Name, Description: raw.Description, Version: raw.Version}
}

// Reference is a fully built reflection dump.
type Reference struct {
	Project ProjectInfo
	Classes *Collection
}

// NewReference builds the project info and class collection of a dump.
func NewReference(raw *types.RawReference) *Reference {
	return &Reference{
		Project: NewProjectInfo(raw.Project),
		Classes: NewCollection(raw.Classes),
	}
}
