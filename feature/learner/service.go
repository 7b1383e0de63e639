package learner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"go.uber.org/zap"
)

// Lists are the per-user course lists.
type Lists struct {
	MyCourses []string `json:"meusCursos"`
	Favorites []string `json:"favoritos"`
}

// Verified describes a certificate found by code.
type Verified struct {
	Email       string `json:"email"`
	CourseID    string `json:"courseId"`
	Code        string `json:"code"`
	CompletedAt string `json:"completedAt"`
}

// Service keeps per-user bookkeeping: enrolments, favorites, progress,
// certificates and instructor signatures.
type Service struct {
	repo   *store.Repository
	logger *zap.Logger
	now    func() time.Time
	rand   func() int
}

// NewService creates a learner service.
func NewService(repo *store.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		rand:   func() int { return rand.IntN(1_000_001) },
	}
}

func (s *Service) user(ctx context.Context, email string) (*catalog.User, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	return c.User(email, false), nil
}

// Lists returns the user's enrolments and favorites. Unknown users get empty lists.
func (s *Service) Lists(ctx context.Context, email string) (Lists, error) {
	u, err := s.user(ctx, email)
	if err != nil {
		return Lists{}, err
	}
	if u == nil {
		return Lists{MyCourses: []string{}, Favorites: []string{}}, nil
	}
	return Lists{MyCourses: u.MyCourses, Favorites: u.Favorites}, nil
}

// SetEnrolled adds courseID to the user's courses, or removes it when remove is set.
func (s *Service) SetEnrolled(ctx context.Context, email, courseID string, remove bool) ([]string, error) {
	return s.toggle(ctx, email, courseID, remove, func(u *catalog.User) *[]string { return &u.MyCourses })
}

// SetFavorite adds courseID to the user's favorites, or removes it when remove is set.
func (s *Service) SetFavorite(ctx context.Context, email, courseID string, remove bool) ([]string, error) {
	return s.toggle(ctx, email, courseID, remove, func(u *catalog.User) *[]string { return &u.Favorites })
}

func (s *Service) toggle(ctx context.Context, email, courseID string, remove bool, list func(*catalog.User) *[]string) ([]string, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, validation("courseId obrigatorio.")
	}
	var out []string
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		l := list(c.User(email, true))
		*l = catalog.Toggle(*l, courseID, remove)
		out = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Signature returns the user's signature, or nil.
func (s *Service) Signature(ctx context.Context, email string) (*catalog.Signature, error) {
	u, err := s.user(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}
	return u.Signature, nil
}

// SetSignature stores the trimmed signature text and font.
func (s *Service) SetSignature(ctx context.Context, email, text, font string) (*catalog.Signature, error) {
	text, font = strings.TrimSpace(text), strings.TrimSpace(font)
	if text == "" {
		return nil, validation("Texto da assinatura obrigatorio.")
	}
	if font == "" {
		return nil, validation("Fonte da assinatura obrigatoria.")
	}
	sig := &catalog.Signature{Text: text, Font: font, UpdatedAt: s.now()}
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		c.User(email, true).Signature = sig
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// Progress returns completed lessons per course.
func (s *Service) Progress(ctx context.Context, email string) (map[string]*catalog.Progress, error) {
	u, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Progress == nil {
		return map[string]*catalog.Progress{}, nil
	}
	return u.Progress, nil
}

// SetProgress marks lessonID of courseID as completed, or clears it when
// completed is false.
func (s *Service) SetProgress(ctx context.Context, email, courseID, lessonID string, completed bool) (map[string]*catalog.Progress, error) {
	courseID, lessonID = strings.TrimSpace(courseID), strings.TrimSpace(lessonID)
	if courseID == "" || lessonID == "" {
		return nil, validation("courseId e lessonId obrigatorios.")
	}
	var out map[string]*catalog.Progress
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		u := c.User(email, true)
		if u.Progress == nil {
			u.Progress = map[string]*catalog.Progress{}
		}
		p := u.Progress[courseID]
		if p == nil {
			p = &catalog.Progress{Completed: []string{}}
			u.Progress[courseID] = p
		}
		p.Completed = catalog.Toggle(p.Completed, lessonID, !completed)
		out = u.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Certificates returns the user's certificates per course.
func (s *Service) Certificates(ctx context.Context, email string) (map[string]*catalog.Certificate, error) {
	u, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Certificates == nil {
		return map[string]*catalog.Certificate{}, nil
	}
	return u.Certificates, nil
}

// IssueCertificate creates the certificate for courseID once. Later calls
// return the existing certificates untouched.
func (s *Service) IssueCertificate(ctx context.Context, email, courseID, completedAt string) (map[string]*catalog.Certificate, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, validation("courseId obrigatorio.")
	}
	var out map[string]*catalog.Certificate
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		u := c.User(email, true)
		if u.Certificates == nil {
			u.Certificates = map[string]*catalog.Certificate{}
		}
		if _, ok := u.Certificates[courseID]; !ok {
			if completedAt == "" {
				completedAt = s.now().Format(time.RFC3339Nano)
			}
			u.Certificates[courseID] = &catalog.Certificate{Code: s.code(courseID), CompletedAt: completedAt}
			s.logger.Info("Certificate issued",
				zap.String("email", email),
				zap.String("course_id", courseID),
				zap.String("code", u.Certificates[courseID].Code))
		}
		out = u.Certificates
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// code builds RM-<last six characters of the course id, upper case>-<random>.
func (s *Service) code(courseID string) string {
	tail := courseID
	if r := []rune(courseID); len(r) > 6 {
		tail = string(r[len(r)-6:])
	}
	return fmt.Sprintf("RM-%s-%d", strings.ToUpper(tail), s.rand())
}

// Verify looks a certificate up by code.
func (s *Service) Verify(ctx context.Context, code string) (*Verified, bool, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, false, err
	}
	emails := make([]string, 0, len(c.Users))
	for email := range c.Users {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		for courseID, cert := range c.Users[email].Certificates {
			if cert != nil && cert.Code == code {
				return &Verified{Email: email, CourseID: courseID, Code: cert.Code, CompletedAt: cert.CompletedAt}, true, nil
			}
		}
	}
	return nil, false, nil
}
