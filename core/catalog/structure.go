package catalog

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Module is one section of a course. Unknown fields are carried in Fields.
type Module struct {
	UID     string
	Lessons []Lesson
	Fields  map[string]json.RawMessage
}

// Lesson is one item of a module. Unknown fields are carried in Fields.
type Lesson struct {
	UID       string
	Video     *BlobRef
	Materials []BlobRef
	Fields    map[string]json.RawMessage
}

func (m *Module) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	*m = Module{}
	if err := take(fields, "uid", &m.UID); err != nil {
		return err
	}
	if err := take(fields, "conteudos", &m.Lessons); err != nil {
		return err
	}
	if len(fields) > 0 {
		m.Fields = fields
	}
	return nil
}

func (m Module) MarshalJSON() ([]byte, error) {
	lessons := m.Lessons
	if lessons == nil {
		lessons = []Lesson{}
	}
	known := map[string]any{"conteudos": lessons}
	if m.UID != "" {
		known["uid"] = m.UID
	}
	return encodeObject(m.Fields, known)
}

func (l *Lesson) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	*l = Lesson{}
	if err := take(fields, "uid", &l.UID); err != nil {
		return err
	}
	var video BlobRef
	if err := take(fields, "video", &video); err != nil {
		return err
	}
	if !video.IsZero() {
		l.Video = &video
	}
	var materials []BlobRef
	if err := take(fields, "materiais", &materials); err != nil {
		return err
	}
	for _, ref := range materials {
		if !ref.IsZero() {
			l.Materials = append(l.Materials, ref)
		}
	}
	if len(fields) > 0 {
		l.Fields = fields
	}
	return nil
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	materials := l.Materials
	if materials == nil {
		materials = []BlobRef{}
	}
	known := map[string]any{"materiais": materials}
	if l.Video != nil {
		known["video"] = l.Video
	} else {
		known["video"] = nil
	}
	if l.UID != "" {
		known["uid"] = l.UID
	}
	return encodeObject(l.Fields, known)
}

// Title returns the lesson's tituloAula field, if any.
func (l Lesson) Title() string {
	raw, ok := l.Fields["tituloAula"]
	if !ok {
		return ""
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return ""
	}
	return title
}

// AssignUIDs gives every module and lesson without a uid a fresh one.
func AssignUIDs(modules []Module) {
	for mi := range modules {
		if modules[mi].UID == "" {
			modules[mi].UID = uuid.NewString()
		}
		for li := range modules[mi].Lessons {
			if modules[mi].Lessons[li].UID == "" {
				modules[mi].Lessons[li].UID = uuid.NewString()
			}
		}
	}
}

// CloneModules deep-copies a module tree.
func CloneModules(modules []Module) []Module {
	if modules == nil {
		return nil
	}
	out := make([]Module, len(modules))
	for mi, m := range modules {
		out[mi] = Module{UID: m.UID, Fields: cloneRaw(m.Fields)}
		if m.Lessons != nil {
			out[mi].Lessons = make([]Lesson, len(m.Lessons))
			for li, l := range m.Lessons {
				out[mi].Lessons[li] = l.Clone()
			}
		}
	}
	return out
}

// Clone deep-copies the lesson.
func (l Lesson) Clone() Lesson {
	c := Lesson{UID: l.UID, Fields: cloneRaw(l.Fields)}
	if l.Video != nil {
		v := *l.Video
		c.Video = &v
	}
	if l.Materials != nil {
		c.Materials = append([]BlobRef(nil), l.Materials...)
	}
	return c
}
