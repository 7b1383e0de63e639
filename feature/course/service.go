package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"course-manager/core/catalog"
	"course-manager/core/storage"
	"course-manager/core/store"
	"course-manager/core/utils"
	"course-manager/feature/category"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission carries the scalar fields of an upsert.
type Submission struct {
	ID             string
	Email          string
	InstructorName string
	AffiliateCode  string
	Title          string
	Description    string
	Category       string
	Level          string
	Price          string
	Draft          bool
	RemoveCover    bool
	// Modules is the JSON encoded module tree.
	Modules string
}

// Result is the outcome of a successful upsert.
type Result struct {
	Course  catalog.Course
	Created bool
}

// Service implements the course write and read paths.
type Service struct {
	repo     *store.Repository
	blobs    storage.Blobs
	uploader *Uploader
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a course service.
func NewService(repo *store.Repository, blobs storage.Blobs, uploader *Uploader, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		uploader: uploader,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Uploader returns the uploader used for submissions.
func (s *Service) Uploader() *Uploader {
	return s.uploader
}

// Upsert creates or updates a course from sub and the stored batch. The batch
// is discarded when the upsert fails.
func (s *Service) Upsert(ctx context.Context, sub Submission, batch *Batch) (res *Result, err error) {
	defer func() {
		if err != nil {
			s.uploader.Discard(context.WithoutCancel(ctx), batch)
		}
	}()

	sub.Email = strings.TrimSpace(sub.Email)
	if sub.Email == "" || strings.TrimSpace(sub.Title) == "" {
		return nil, validation("Email e titulo sao obrigatorios.")
	}
	if batch == nil {
		batch = &Batch{}
	}

	modules, err := Normalize(sub.Modules, NewPool(batch.Videos), NewPool(batch.Materials))
	if err != nil {
		return nil, err
	}

	draft := Draft{RemoveCover: sub.RemoveCover, Modules: modules}
	if batch.Cover != nil {
		ref := batch.Cover.Ref()
		draft.Cover = &ref
	}
	if len(batch.Materials) > 0 {
		draft.Materials = make([]catalog.BlobRef, 0, len(batch.Materials))
		for _, up := range batch.Materials {
			draft.Materials = append(draft.Materials, up.Ref())
		}
	}
	for _, up := range batch.All() {
		draft.Fresh = append(draft.Fresh, catalog.Ref{Area: up.Area, Name: up.StorageName})
	}
	if draft.Missing, err = s.missingVideos(ctx, draft); err != nil {
		return nil, err
	}

	var deletions []catalog.Ref
	res = &Result{}
	err = s.repo.UpdateThen(ctx, func(c *catalog.Collection) error {
		var old *catalog.Course
		if sub.ID != "" {
			old, _ = c.Course(sub.ID)
		}
		if old != nil && strings.TrimSpace(old.OwnerEmail) != "" && !old.OwnedBy(sub.Email) {
			return ErrOwnershipMismatch
		}

		out := Reconcile(draft, old)
		now := s.now()

		next := catalog.Course{}
		if old != nil {
			next = *old
		} else {
			next.ID = s.newID()
			next.CreatedAt = now
		}
		if next.CreatedAt.IsZero() {
			next.CreatedAt = now
		}
		next.OwnerEmail = sub.Email
		if name := strings.TrimSpace(sub.InstructorName); name != "" || old == nil {
			next.InstructorName = name
		}
		next.AffiliateCode = sub.AffiliateCode
		next.Title = sub.Title
		next.Description = sub.Description
		next.Category = sub.Category
		next.Level = sub.Level
		next.Price = sub.Price
		next.Draft = sub.Draft
		next.CoverImage = out.Cover
		next.Materials = out.Materials
		next.Modules = out.Modules
		next.UpdatedAt = now

		c.Categories, _ = category.Register(c.Categories, sub.Category)

		if old != nil {
			*old = next
		} else {
			c.Courses = append(c.Courses, next)
		}
		deletions = Guard(out.Candidates, &next, c.RefsExcept(next.ID))
		res.Course = next
		res.Created = old == nil
		return nil
	}, func(*catalog.Collection) {
		s.removeBlobs(ctx, res.Course.ID, deletions)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// missingVideos looks up the lesson video names the submission neither
// uploaded nor finds in storage.
func (s *Service) missingVideos(ctx context.Context, d Draft) (map[string]bool, error) {
	fresh := make(map[string]bool, len(d.Fresh))
	for _, r := range d.Fresh {
		fresh[r.Name] = true
	}
	missing := map[string]bool{}
	checked := map[string]bool{}
	for _, m := range d.Modules {
		for _, l := range m.Lessons {
			v := l.Video
			if v == nil || v.Remove || v.StorageName == "" || fresh[v.StorageName] || checked[v.StorageName] {
				continue
			}
			checked[v.StorageName] = true
			if !storage.ValidName(v.StorageName) {
				missing[v.StorageName] = true
				continue
			}
			ok, err := s.blobs.Exists(ctx, storage.AreaVideos, v.StorageName)
			if err != nil {
				return nil, fmt.Errorf("check video %q: %w", v.StorageName, err)
			}
			if !ok {
				missing[v.StorageName] = true
			}
		}
	}
	return missing, nil
}

// removeBlobs deletes blobs once the document is saved, before the writer lock
// is released. Failures leave orphans for the reference sweep and are only logged.
func (s *Service) removeBlobs(ctx context.Context, courseID string, refs []catalog.Ref) {
	ctx = context.WithoutCancel(ctx)
	for _, r := range refs {
		if err := s.blobs.Remove(ctx, r.Area, r.Name); err != nil {
			s.logger.Warn("Failed to remove blob",
				zap.String("course_id", courseID),
				zap.String("area", string(r.Area)),
				zap.String("name", r.Name),
				zap.Error(err))
			continue
		}
		s.logger.Debug("Removed blob",
			zap.String("course_id", courseID),
			zap.String("area", string(r.Area)),
			zap.String("name", r.Name))
	}
}

// List returns every stored course.
func (s *Service) List(ctx context.Context) ([]catalog.Course, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	return c.Courses, nil
}

// Get returns one course.
func (s *Service) Get(ctx context.Context, id string) (*catalog.Course, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := c.Course(id)
	if !ok {
		return nil, ErrNotFound
	}
	return course, nil
}

// immutableKeys cannot be changed through Patch. Blob fields only change
// through Upsert so stored files stay consistent.
var immutableKeys = map[string]bool{
	"id": true, "email": true, "dataCadastro": true, "dataAtualizacao": true,
	"imagemCapa": true, "materiais": true, "modulos": true, "perguntas": true,
}

// Patch merges scalar fields over a stored course. fields must contain the
// owner's email.
func (s *Service) Patch(ctx context.Context, id string, fields map[string]any) (*catalog.Course, error) {
	email := strings.TrimSpace(utils.ToString(fields["email"]))
	if email == "" {
		return nil, validation("Email obrigatorio para atualizar curso.")
	}

	var updated catalog.Course
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		course, ok := c.Course(id)
		if !ok {
			return ErrNotFound
		}
		if strings.TrimSpace(course.OwnerEmail) != "" && !course.OwnedBy(email) {
			return ErrOwnershipMismatch
		}

		for key, val := range fields {
			if immutableKeys[key] {
				continue
			}
			switch key {
			case "instrutorNome":
				course.InstructorName = utils.ToString(val)
			case "codigo_afiliado_proprio":
				course.AffiliateCode = utils.ToString(val)
			case "titulo":
				course.Title = utils.ToString(val)
			case "descricao":
				course.Description = utils.ToString(val)
			case "categoria":
				course.Category = utils.ToString(val)
			case "nivel":
				course.Level = utils.ToString(val)
			case "preco":
				course.Price = utils.ToString(val)
			case "rascunho":
				course.Draft = utils.ToBool(val)
			default:
				raw, err := json.Marshal(val)
				if err != nil {
					return validation(fmt.Sprintf("Campo %s invalido.", key))
				}
				if course.Extra == nil {
					course.Extra = map[string]json.RawMessage{}
				}
				course.Extra[key] = raw
			}
		}
		if strings.TrimSpace(course.Title) == "" {
			return validation("Titulo obrigatorio.")
		}
		course.UpdatedAt = s.now()
		c.Categories, _ = category.Register(c.Categories, course.Category)
		updated = *course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a course owned by email together with the blobs no other
// course references, and forgets it in every user's lists.
func (s *Service) Delete(ctx context.Context, id, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validation("Email obrigatorio para excluir curso.")
	}

	var deletions []catalog.Ref
	return s.repo.UpdateThen(ctx, func(c *catalog.Collection) error {
		course, ok := c.Course(id)
		if !ok {
			return ErrNotFound
		}
		if strings.TrimSpace(course.OwnerEmail) != "" && !course.OwnedBy(email) {
			return ErrOwnershipMismatch
		}
		removed, _ := c.RemoveCourse(id)
		deletions = Guard(removed.References(), nil, c.RefsExcept(""))
		return nil
	}, func(*catalog.Collection) {
		s.removeBlobs(ctx, id, deletions)
	})
}

// IsClientError reports whether err is caused by the request.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrOwnershipMismatch) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrTooLarge)
}
