package catalog

import "strings"

// DefaultCategories seeds an empty collection.
var DefaultCategories = []string{
	"Vendas", "Marketing", "Gatronomia", "Financas", "Churrasco",
	"Fitness", "Vegano", "Doces & Sobremesas", "Salgados",
}

// Collection is the full stored snapshot.
type Collection struct {
	Version    int64            `json:"version"`
	Courses    []Course         `json:"cursos"`
	Users      map[string]*User `json:"usuarios"`
	Categories []string         `json:"categorias"`
}

// NewCollection returns an empty snapshot with the default categories.
func NewCollection() *Collection {
	c := &Collection{}
	c.Normalize()
	return c
}

// Normalize fills nil containers and seeds categories.
func (c *Collection) Normalize() {
	if c.Courses == nil {
		c.Courses = []Course{}
	}
	if c.Users == nil {
		c.Users = map[string]*User{}
	}
	for email, u := range c.Users {
		if u == nil {
			u = &User{}
			c.Users[email] = u
		}
		u.normalize()
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
}

// FindCourse returns the index of the course with id, or -1.
func (c *Collection) FindCourse(id string) int {
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			return i
		}
	}
	return -1
}

// Course returns a pointer into the collection for id.
func (c *Collection) Course(id string) (*Course, bool) {
	i := c.FindCourse(id)
	if i < 0 {
		return nil, false
	}
	return &c.Courses[i], true
}

// User returns the record for email, creating it when create is set.
func (c *Collection) User(email string, create bool) *User {
	email = strings.TrimSpace(email)
	if u, ok := c.Users[email]; ok && u != nil {
		return u
	}
	if !create {
		return nil
	}
	if c.Users == nil {
		c.Users = map[string]*User{}
	}
	u := &User{}
	u.normalize()
	c.Users[email] = u
	return u
}

// RemoveCourse deletes the course and every user reference to it.
func (c *Collection) RemoveCourse(id string) (Course, bool) {
	i := c.FindCourse(id)
	if i < 0 {
		return Course{}, false
	}
	removed := c.Courses[i]
	c.Courses = append(c.Courses[:i], c.Courses[i+1:]...)
	for _, u := range c.Users {
		if u != nil {
			u.forget(id)
		}
	}
	return removed, true
}
