package catalog

import "course-manager/core/storage"

// Ref names a stored blob.
type Ref struct {
	Area storage.Area
	Name string
}

// References lists every blob the course points to. Covers live with videos.
func (c *Course) References() []Ref {
	var refs []Ref
	add := func(area storage.Area, b *BlobRef) {
		if b != nil && b.StorageName != "" {
			refs = append(refs, Ref{Area: area, Name: b.StorageName})
		}
	}
	add(storage.AreaVideos, c.CoverImage)
	for i := range c.Materials {
		add(storage.AreaMaterials, &c.Materials[i])
	}
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			add(storage.AreaVideos, l.Video)
			for i := range l.Materials {
				add(storage.AreaMaterials, &l.Materials[i])
			}
		}
	}
	return refs
}

// RefSet is a set of blob references.
type RefSet map[Ref]struct{}

// AddCourse adds all references of c.
func (s RefSet) AddCourse(c *Course) {
	for _, r := range c.References() {
		s[r] = struct{}{}
	}
}

// Has reports whether the blob is referenced.
func (s RefSet) Has(area storage.Area, name string) bool {
	_, ok := s[Ref{Area: area, Name: name}]
	return ok
}

// RefsExcept collects references of every course but the one with id.
func (c *Collection) RefsExcept(id string) RefSet {
	set := RefSet{}
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			continue
		}
		set.AddCourse(&c.Courses[i])
	}
	return set
}

// ReferenceIndex maps every referenced blob to the ids of the courses using it.
func (c *Collection) ReferenceIndex() map[Ref][]string {
	index := make(map[Ref][]string)
	for i := range c.Courses {
		course := &c.Courses[i]
		seen := map[Ref]bool{}
		for _, r := range course.References() {
			if seen[r] {
				continue
			}
			seen[r] = true
			index[r] = append(index[r], course.ID)
		}
	}
	return index
}
