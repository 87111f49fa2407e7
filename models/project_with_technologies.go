package models

// ProjectWithTechnologies is the read-side view of a project with its
// technology names denormalized through the join table.
type ProjectWithTechnologies struct {
	Project
	Technologies []Technology `json:"technologies"`
}
