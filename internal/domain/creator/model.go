package creator

import (
	"time"

	"github.com/rpggio/spectator/internal/naturalsort"
)

// Kind distinguishes people from groups.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindGroup      Kind = "group"
)

// Valid reports whether k is a known creator kind.
func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindGroup
}

// Creator is a person or group credited on publications, events and works.
type Creator struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Name       string    `json:"name"`
	NameSort   string    `json:"name_sort"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// SortSource implements naturalsort.Sortable.
func (c *Creator) SortSource() string { return c.Name }

// SortKind sorts individuals by surname and groups like titles.
func (c *Creator) SortKind() naturalsort.Kind {
	if c.Kind == KindIndividual {
		return naturalsort.Person
	}
	return naturalsort.Thing
}

// SubjectType is the kind of record a credit points at.
type SubjectType string

const (
	SubjectPublication SubjectType = "publication"
	SubjectEvent       SubjectType = "event"
	SubjectWork        SubjectType = "work"
)

// Valid reports whether t is a creditable subject type.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectPublication, SubjectEvent, SubjectWork:
		return true
	}
	return false
}

// MaxRoleNameLength bounds Credit.RoleName.
const MaxRoleNameLength = 50

// Credit links a creator to a subject in a named role, e.g. "Author" or
// "Illustrator". Credits on a subject are ordered by RoleOrder then
// RoleName.
type Credit struct {
	ID          string      `json:"id"`
	CreatorID   string      `json:"creator_id"`
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	RoleName    string      `json:"role_name,omitempty"`
	RoleOrder   int         `json:"role_order"`
	CreatedAt   time.Time   `json:"created_at"`

	// Filled in on reads.
	CreatorName  string `json:"creator_name,omitempty"`
	CreatorKind  Kind   `json:"creator_kind,omitempty"`
	SubjectTitle string `json:"subject_title,omitempty"`
	// SubjectKind is the publication, event or work kind of the subject.
	SubjectKind string `json:"subject_kind,omitempty"`
}

// Detail is a creator with everything they are credited on.
type Detail struct {
	Creator      *Creator `json:"creator"`
	Publications []Credit `json:"publications"`
	Events       []Credit `json:"events"`
	Works        []Credit `json:"works"`
}
