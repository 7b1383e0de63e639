package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"course-manager/core/utils"
)

// Course is a persisted course document.
type Course struct {
	ID             string     `json:"id"`
	OwnerEmail     string     `json:"email"`
	InstructorName string     `json:"instrutorNome"`
	AffiliateCode  string     `json:"codigo_afiliado_proprio"`
	Title          string     `json:"titulo"`
	Description    string     `json:"descricao"`
	Category       string     `json:"categoria"`
	Level          string     `json:"nivel"`
	Price          string     `json:"preco"`
	Draft          bool       `json:"rascunho"`
	CoverImage     *BlobRef   `json:"imagemCapa"`
	Materials      []BlobRef  `json:"materiais"`
	Modules        []Module   `json:"modulos"`
	Questions      []Question `json:"perguntas,omitempty"`
	CreatedAt      time.Time  `json:"dataCadastro"`
	UpdatedAt      time.Time  `json:"dataAtualizacao"`

	// Extra holds top-level fields written by older clients.
	Extra map[string]json.RawMessage `json:"-"`
}

// CourseKeys lists the JSON keys owned by Course.
var CourseKeys = []string{
	"id", "email", "instrutorNome", "codigo_afiliado_proprio", "titulo", "descricao",
	"categoria", "nivel", "preco", "rascunho", "imagemCapa", "materiais", "modulos",
	"perguntas", "dataCadastro", "dataAtualizacao",
}

type plainCourse Course

// looseCourse accepts the price and draft flag in whatever JSON type edits stored them.
type looseCourse struct {
	plainCourse
	Price any `json:"preco"`
	Draft any `json:"rascunho"`
}

func (c *Course) UnmarshalJSON(data []byte) error {
	var l looseCourse
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	p := l.plainCourse
	p.Price = utils.ToString(l.Price)
	p.Draft = utils.ToBool(l.Draft)
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	for _, key := range CourseKeys {
		delete(fields, key)
	}
	if len(fields) > 0 {
		p.Extra = fields
	}
	if p.CoverImage != nil && p.CoverImage.IsZero() {
		p.CoverImage = nil
	}
	*c = Course(p)
	return nil
}

func (c Course) MarshalJSON() ([]byte, error) {
	p := plainCourse(c)
	if p.Materials == nil {
		p.Materials = []BlobRef{}
	}
	if p.Modules == nil {
		p.Modules = []Module{}
	}
	base, err := json.Marshal(p)
	if err != nil || len(c.Extra) == 0 {
		return base, err
	}
	fields, err := decodeObject(base)
	if err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// OwnedBy compares the owner email case-insensitively.
func (c *Course) OwnedBy(email string) bool {
	return strings.EqualFold(strings.TrimSpace(c.OwnerEmail), strings.TrimSpace(email))
}

// Question is a student question on a course.
type Question struct {
	ID          string     `json:"id"`
	AuthorEmail string     `json:"autorEmail"`
	AuthorName  string     `json:"autorNome"`
	Text        string     `json:"texto"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Answers     []Answer   `json:"respostas"`
}

// Answer replies to a Question.
type Answer struct {
	ID          string    `json:"id"`
	AuthorEmail string    `json:"autorEmail"`
	AuthorName  string    `json:"autorNome"`
	Text        string    `json:"texto"`
	CreatedAt   time.Time `json:"createdAt"`
}
