package course

import (
	"course-manager/core/catalog"
	"course-manager/core/storage"
)

// Draft is the normalized submission the engine reconciles.
type Draft struct {
	// Cover is the freshly uploaded cover, if any.
	Cover *catalog.BlobRef
	// RemoveCover clears the cover.
	RemoveCover bool
	// Materials replaces the top-level list when non-nil.
	Materials []catalog.BlobRef
	// Modules is the normalized module tree.
	Modules []catalog.Module
	// Fresh lists every blob stored for this submission.
	Fresh []catalog.Ref
	// Missing holds lesson video names that are neither fresh nor stored.
	Missing map[string]bool
}

// Outcome is the reconciled blob state of a course.
type Outcome struct {
	Cover     *catalog.BlobRef
	Materials []catalog.BlobRef
	Modules   []catalog.Module
	// Candidates are blobs that may be deleted once the course is saved.
	// They still have to pass Guard.
	Candidates []catalog.Ref
}

// lessonPos addresses a lesson inside a module tree.
type lessonPos struct{ m, l int }

// Reconcile merges d over old, which is nil on creation.
func Reconcile(d Draft, old *catalog.Course) Outcome {
	var out Outcome
	var prev catalog.Course
	if old != nil {
		prev = *old
	}

	// Cover.
	switch {
	case d.RemoveCover:
		out.Cover = nil
	case d.Cover != nil:
		c := *d.Cover
		out.Cover = &c
	case prev.CoverImage != nil:
		c := *prev.CoverImage
		out.Cover = &c
	}
	if prev.CoverImage != nil && prev.CoverImage.StorageName != "" {
		replaced := d.Cover != nil && d.Cover.StorageName != prev.CoverImage.StorageName
		if d.RemoveCover || replaced {
			out.Candidates = append(out.Candidates, catalog.Ref{Area: storage.AreaVideos, Name: prev.CoverImage.StorageName})
		}
	}

	// Top-level materials are replaced wholesale by a fresh batch.
	if d.Materials != nil {
		out.Materials = append([]catalog.BlobRef{}, d.Materials...)
	} else {
		out.Materials = append([]catalog.BlobRef{}, prev.Materials...)
	}

	// Lessons.
	out.Modules = catalog.CloneModules(d.Modules)
	inheritModuleUIDs(out.Modules, prev.Modules)
	matches := matchLessons(out.Modules, prev.Modules)
	matched := make(map[lessonPos]bool, len(matches))
	fresh := make(map[string]bool, len(d.Fresh))
	for _, r := range d.Fresh {
		fresh[r.Name] = true
	}

	for mi := range out.Modules {
		for li := range out.Modules[mi].Lessons {
			lesson := &out.Modules[mi].Lessons[li]
			oldPos, ok := matches[lessonPos{mi, li}]
			var oldVideo *catalog.BlobRef
			if ok {
				matched[oldPos] = true
				oldLesson := prev.Modules[oldPos.m].Lessons[oldPos.l]
				oldVideo = oldLesson.Video
				if lesson.UID == "" {
					lesson.UID = oldLesson.UID
				}
			}
			oldName := ""
			if oldVideo != nil {
				oldName = oldVideo.StorageName
				// The client echoed the original file name without uploading it again.
				v := lesson.Video
				if v != nil && !v.Remove && !fresh[v.StorageName] && v.StorageName != oldName &&
					oldVideo.OriginalName != "" && v.StorageName == oldVideo.OriginalName {
					kept := *oldVideo
					lesson.Video = &kept
				}
			}
			// A name that resolves to nothing never replaces the stored video.
			if v := lesson.Video; v != nil && !v.Remove && d.Missing[v.StorageName] {
				if oldVideo != nil {
					kept := *oldVideo
					lesson.Video = &kept
				} else {
					lesson.Video = nil
				}
			}

			switch {
			case lesson.Video != nil && lesson.Video.Remove:
				if oldName != "" {
					out.Candidates = append(out.Candidates, catalog.Ref{Area: storage.AreaVideos, Name: oldName})
				}
				lesson.Video = nil
			case lesson.Video != nil && lesson.Video.StorageName != "" && oldName != "" && lesson.Video.StorageName != oldName:
				out.Candidates = append(out.Candidates, catalog.Ref{Area: storage.AreaVideos, Name: oldName})
			}
		}
	}

	// Old lessons nothing maps to anymore were removed from the course.
	for mi, m := range prev.Modules {
		for li, l := range m.Lessons {
			if matched[lessonPos{mi, li}] || l.Video == nil || l.Video.StorageName == "" {
				continue
			}
			out.Candidates = append(out.Candidates, catalog.Ref{Area: storage.AreaVideos, Name: l.Video.StorageName})
		}
	}

	// Fresh uploads the final document does not use.
	out.Candidates = append(out.Candidates, d.Fresh...)

	catalog.AssignUIDs(out.Modules)
	return out
}

// matchLessons pairs new lesson positions with old ones. A lesson carrying a
// uid known from the old tree is matched by uid; the rest fall back to the same
// module and lesson index, skipping old lessons already claimed by uid.
func matchLessons(next, prev []catalog.Module) map[lessonPos]lessonPos {
	byUID := make(map[string]lessonPos)
	for mi, m := range prev {
		for li, l := range m.Lessons {
			if l.UID != "" {
				byUID[l.UID] = lessonPos{mi, li}
			}
		}
	}

	matches := make(map[lessonPos]lessonPos)
	claimed := make(map[lessonPos]bool)
	for mi, m := range next {
		for li, l := range m.Lessons {
			if l.UID == "" {
				continue
			}
			if pos, ok := byUID[l.UID]; ok && !claimed[pos] {
				matches[lessonPos{mi, li}] = pos
				claimed[pos] = true
			}
		}
	}
	for mi, m := range next {
		for li := range m.Lessons {
			cur := lessonPos{mi, li}
			if _, done := matches[cur]; done {
				continue
			}
			if mi >= len(prev) || li >= len(prev[mi].Lessons) || claimed[cur] {
				continue
			}
			matches[cur] = cur
			claimed[cur] = true
		}
	}
	return matches
}

// inheritModuleUIDs copies the old module uid at the same index onto modules
// submitted without one, unless another submitted module already uses it.
func inheritModuleUIDs(next, prev []catalog.Module) {
	used := make(map[string]bool)
	for _, m := range next {
		if m.UID != "" {
			used[m.UID] = true
		}
	}
	for mi := range next {
		if next[mi].UID != "" || mi >= len(prev) || prev[mi].UID == "" || used[prev[mi].UID] {
			continue
		}
		next[mi].UID = prev[mi].UID
		used[prev[mi].UID] = true
	}
}

// Guard drops candidates still referenced by the saved course or by any
// other course of the collection, and removes duplicates.
func Guard(candidates []catalog.Ref, saved *catalog.Course, others catalog.RefSet) []catalog.Ref {
	keep := catalog.RefSet{}
	if saved != nil {
		keep.AddCourse(saved)
	}
	seen := map[catalog.Ref]bool{}
	var out []catalog.Ref
	for _, r := range candidates {
		if r.Name == "" || seen[r] || keep.Has(r.Area, r.Name) || others.Has(r.Area, r.Name) {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
