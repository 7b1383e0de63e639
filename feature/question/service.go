package question

import (
	"context"
	"errors"
	"strings"
	"time"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrCourseNotFound is returned for unknown course ids.
	ErrCourseNotFound = errors.New("course not found")
	// ErrQuestionNotFound is returned for unknown question ids.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrMissingFields is returned when author or text fields are blank.
	ErrMissingFields = errors.New("missing required fields")
)

// Post is an authored message, used for both questions and answers.
type Post struct {
	AuthorEmail string `json:"autorEmail"`
	AuthorName  string `json:"autorNome"`
	Text        string `json:"texto"`
}

func (p Post) valid() bool {
	return strings.TrimSpace(p.AuthorEmail) != "" && strings.TrimSpace(p.AuthorName) != "" && strings.TrimSpace(p.Text) != ""
}

// Service manages course questions and their answers.
type Service struct {
	repo   *store.Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a question service.
func NewService(repo *store.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// List returns the questions of a course.
func (s *Service) List(ctx context.Context, courseID string) ([]catalog.Question, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := c.Course(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}
	if course.Questions == nil {
		return []catalog.Question{}, nil
	}
	return course.Questions, nil
}

// Ask appends a question to a course.
func (s *Service) Ask(ctx context.Context, courseID string, p Post) (*catalog.Question, error) {
	var out catalog.Question
	err := s.onCourse(ctx, courseID, func(course *catalog.Course) error {
		if !p.valid() {
			return ErrMissingFields
		}
		out = catalog.Question{
			ID:          s.newID(),
			AuthorEmail: p.AuthorEmail,
			AuthorName:  p.AuthorName,
			Text:        p.Text,
			CreatedAt:   s.now(),
			Answers:     []catalog.Answer{},
		}
		course.Questions = append(course.Questions, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Edit replaces the text of a question.
func (s *Service) Edit(ctx context.Context, courseID, questionID, text string) (*catalog.Question, error) {
	var out catalog.Question
	err := s.onQuestion(ctx, courseID, questionID, func(q *catalog.Question) error {
		if strings.TrimSpace(text) == "" {
			return ErrMissingFields
		}
		now := s.now()
		q.Text = text
		q.UpdatedAt = &now
		out = *q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove deletes a question. Removing an unknown question is not an error.
func (s *Service) Remove(ctx context.Context, courseID, questionID string) error {
	return s.onCourse(ctx, courseID, func(course *catalog.Course) error {
		kept := course.Questions[:0]
		for _, q := range course.Questions {
			if q.ID != questionID {
				kept = append(kept, q)
			}
		}
		course.Questions = kept
		return nil
	})
}

// Answer appends an answer to a question.
func (s *Service) Answer(ctx context.Context, courseID, questionID string, p Post) (*catalog.Answer, error) {
	var out catalog.Answer
	err := s.onQuestion(ctx, courseID, questionID, func(q *catalog.Question) error {
		if !p.valid() {
			return ErrMissingFields
		}
		out = catalog.Answer{
			ID:          s.newID(),
			AuthorEmail: p.AuthorEmail,
			AuthorName:  p.AuthorName,
			Text:        p.Text,
			CreatedAt:   s.now(),
		}
		q.Answers = append(q.Answers, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) onCourse(ctx context.Context, courseID string, fn func(*catalog.Course) error) error {
	return s.repo.Update(ctx, func(c *catalog.Collection) error {
		course, ok := c.Course(courseID)
		if !ok {
			return ErrCourseNotFound
		}
		return fn(course)
	})
}

func (s *Service) onQuestion(ctx context.Context, courseID, questionID string, fn func(*catalog.Question) error) error {
	return s.onCourse(ctx, courseID, func(course *catalog.Course) error {
		for i := range course.Questions {
			if course.Questions[i].ID == questionID {
				return fn(&course.Questions[i])
			}
		}
		return ErrQuestionNotFound
	})
}
