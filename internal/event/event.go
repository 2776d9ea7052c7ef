package event

import "github.com/AndrewHnidets/demo-repositories/internal/model"

// Event names.
const (
	ProjectCreatedName = "project.created"
	ProjectUpdatedName = "project.updated"
)

// Event is an opaque notification handed to subscribers.
type Event interface {
	Name() string
}

// ProjectCreated fires when a published project is created.
type ProjectCreated struct {
	Project *model.Project
}

func (ProjectCreated) Name() string { return ProjectCreatedName }

// ProjectUpdated fires when a published project is updated.
type ProjectUpdated struct {
	Project *model.Project
}

func (ProjectUpdated) Name() string { return ProjectUpdatedName }
