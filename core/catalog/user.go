package catalog

import (
	"slices"
	"time"
)

// User is the per-email bookkeeping record.
type User struct {
	MyCourses    []string                `json:"meusCursos"`
	Favorites    []string                `json:"favoritos"`
	Progress     map[string]*Progress    `json:"progresso,omitempty"`
	Certificates map[string]*Certificate `json:"certificados,omitempty"`
	Signature    *Signature              `json:"assinatura,omitempty"`
}

// Progress records completed lesson ids of one course.
type Progress struct {
	Completed []string `json:"completadas"`
}

// Certificate is issued once per user and course.
type Certificate struct {
	Code        string `json:"code"`
	CompletedAt string `json:"completedAt"`
}

// Signature is the instructor signature printed on certificates.
type Signature struct {
	Text      string    `json:"text"`
	Font      string    `json:"font"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) normalize() {
	if u.MyCourses == nil {
		u.MyCourses = []string{}
	}
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
}

// Enrolled reports whether courseID is in the user's course list.
func (u *User) Enrolled(courseID string) bool {
	return slices.Contains(u.MyCourses, courseID)
}

// forget drops every trace of courseID.
func (u *User) forget(courseID string) {
	u.MyCourses = slices.DeleteFunc(u.MyCourses, func(id string) bool { return id == courseID })
	u.Favorites = slices.DeleteFunc(u.Favorites, func(id string) bool { return id == courseID })
	delete(u.Progress, courseID)
	delete(u.Certificates, courseID)
}

// Toggle adds or removes id from list.
func Toggle(list []string, id string, remove bool) []string {
	if remove {
		return slices.DeleteFunc(list, func(v string) bool { return v == id })
	}
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}
