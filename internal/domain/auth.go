package domain

// SubjectType differentiates user vs service tokens.
type SubjectType string

const (
	SubjectTypeUser    SubjectType = "USER"
	SubjectTypeService SubjectType = "SERVICE"
)
