package course

import (
	"bytes"
	"encoding/json"
	"fmt"

	"course-manager/core/catalog"
)

// Normalize decodes the submitted modulos document and resolves every lesson
// video and material against the upload pools, keeping module and lesson
// positions as submitted.
func Normalize(raw string, videos, materials Pool) ([]catalog.Module, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return []catalog.Module{}, nil
	}
	var modules []catalog.Module
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStructure, err)
	}
	if modules == nil {
		modules = []catalog.Module{}
	}
	for mi := range modules {
		for li := range modules[mi].Lessons {
			l := &modules[mi].Lessons[li]
			l.Video = ResolveVideo(l.Video, videos)
			l.Materials = ResolveMaterials(l.Materials, materials)
		}
	}
	return modules, nil
}
