package course

import "course-manager/core/catalog"

// Pool maps client file names to storage names for one upload field.
// The first upload of a given name wins.
type Pool map[string]string

// NewPool indexes uploads by original name.
func NewPool(uploads []Upload) Pool {
	p := make(Pool, len(uploads))
	for _, up := range uploads {
		if _, dup := p[up.OriginalName]; !dup {
			p[up.OriginalName] = up.StorageName
		}
	}
	return p
}

// ResolveVideo rewrites a video placeholder against the pool. Placeholders
// marked for removal are returned untouched for the engine to act on; unmatched
// ones pass through unchanged.
func ResolveVideo(ref *catalog.BlobRef, pool Pool) *catalog.BlobRef {
	if ref == nil {
		return nil
	}
	out := *ref
	if out.Remove {
		return &out
	}
	if stored, ok := pool[out.StorageName]; ok {
		if out.OriginalName == "" {
			out.OriginalName = out.StorageName
		}
		out.StorageName = stored
	}
	return &out
}

// ResolveMaterials rewrites material placeholders, matching on the original
// name first and the file name second. Entries marked for removal are dropped.
func ResolveMaterials(refs []catalog.BlobRef, pool Pool) []catalog.BlobRef {
	out := make([]catalog.BlobRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Remove {
			continue
		}
		key := ref.OriginalName
		if key == "" {
			key = ref.StorageName
		}
		if stored, ok := pool[key]; ok {
			if ref.OriginalName == "" {
				ref.OriginalName = key
			}
			ref.StorageName = stored
		}
		out = append(out, ref)
	}
	return out
}
