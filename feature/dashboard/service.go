package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"go.uber.org/zap"
)

// TopLessonsLimit caps Report.TopLessons.
const TopLessonsLimit = 5

// LessonViews counts completions of one lesson.
type LessonViews struct {
	LessonID    string `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
	CourseTitle string `json:"courseTitle"`
	CourseID    string `json:"courseId"`
	Views       int    `json:"views"`
}

// Report summarizes an instructor's courses.
type Report struct {
	TotalCourses   int           `json:"totalCourses"`
	TotalStudents  int           `json:"totalStudents"`
	TotalViews     int           `json:"totalViews"`
	TotalQuestions int           `json:"totalQuestions"`
	TopLessons     []LessonViews `json:"topLessons"`
}

// Service computes instructor dashboards.
type Service struct {
	repo   *store.Repository
	logger *zap.Logger
}

// NewService creates a dashboard service.
func NewService(repo *store.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Report builds the dashboard of the instructor owning courses under email.
func (s *Service) Report(ctx context.Context, email string) (*Report, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Build(c, email), nil
}

// Build computes the report from a collection snapshot. Lesson ids have the
// form les-<module>-<lesson>.
func Build(c *catalog.Collection, email string) *Report {
	email = strings.ToLower(strings.TrimSpace(email))
	var courses []*catalog.Course
	ids := map[string]bool{}
	for i := range c.Courses {
		if strings.ToLower(strings.TrimSpace(c.Courses[i].OwnerEmail)) == email {
			courses = append(courses, &c.Courses[i])
			ids[c.Courses[i].ID] = true
		}
	}

	r := &Report{TotalCourses: len(courses), TopLessons: []LessonViews{}}
	views := map[string]int{}
	for _, u := range c.Users {
		if u == nil {
			continue
		}
		for _, id := range u.MyCourses {
			if ids[id] {
				r.TotalStudents++
				break
			}
		}
		for courseID, p := range u.Progress {
			if !ids[courseID] || p == nil {
				continue
			}
			r.TotalViews += len(p.Completed)
			for _, lessonID := range p.Completed {
				views[lessonID]++
			}
		}
	}
	for _, course := range courses {
		r.TotalQuestions += len(course.Questions)
	}

	for lessonID, n := range views {
		entry, ok := resolveLesson(courses, lessonID)
		if !ok {
			continue
		}
		entry.Views = n
		r.TopLessons = append(r.TopLessons, entry)
	}
	sort.Slice(r.TopLessons, func(i, j int) bool {
		a, b := r.TopLessons[i], r.TopLessons[j]
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		return a.LessonID < b.LessonID
	})
	if len(r.TopLessons) > TopLessonsLimit {
		r.TopLessons = r.TopLessons[:TopLessonsLimit]
	}
	return r
}

// resolveLesson finds the first course with a titled lesson at the position
// encoded in lessonID.
func resolveLesson(courses []*catalog.Course, lessonID string) (LessonViews, bool) {
	var m, l int
	if _, err := fmt.Sscanf(lessonID, "les-%d-%d", &m, &l); err != nil || fmt.Sprintf("les-%d-%d", m, l) != lessonID {
		return LessonViews{}, false
	}
	for _, course := range courses {
		if m >= len(course.Modules) || l >= len(course.Modules[m].Lessons) {
			continue
		}
		if title := course.Modules[m].Lessons[l].Title(); title != "" {
			return LessonViews{LessonID: lessonID, LessonTitle: title, CourseTitle: course.Title, CourseID: course.ID}, true
		}
	}
	return LessonViews{}, false
}
