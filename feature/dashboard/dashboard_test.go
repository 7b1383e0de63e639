package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func titled(titles ...string) catalog.Module {
	m := catalog.Module{}
	for _, t := range titles {
		l := catalog.Lesson{}
		if t != "" {
			l.Fields = map[string]json.RawMessage{"tituloAula": json.RawMessage(fmt.Sprintf("%q", t))}
		}
		m.Lessons = append(m.Lessons, l)
	}
	return m
}

func sample() *catalog.Collection {
	c := catalog.NewCollection()
	c.Courses = []catalog.Course{
		{ID: "c1", OwnerEmail: "Ana@X.com", Title: "Bolos", Modules: []catalog.Module{titled("Massa", "Cobertura", "")},
			Questions: []catalog.Question{{ID: "q1"}, {ID: "q2"}}},
		{ID: "c2", OwnerEmail: "ana@x.com", Title: "Paes"},
		{ID: "c3", OwnerEmail: "bob@x.com", Title: "Outro", Modules: []catalog.Module{titled("X")},
			Questions: []catalog.Question{{ID: "q3"}}},
	}
	c.Users = map[string]*catalog.User{
		"s1@x.com": {MyCourses: []string{"c1"}, Progress: map[string]*catalog.Progress{
			"c1": {Completed: []string{"les-0-0", "les-0-1", "les-0-2"}},
			"c3": {Completed: []string{"les-0-0"}},
		}},
		"s2@x.com": {MyCourses: []string{"c2", "c3"}, Progress: map[string]*catalog.Progress{
			"c1": {Completed: []string{"les-0-0"}},
		}},
		"s3@x.com": {MyCourses: []string{"c3"}},
	}
	return c
}

func TestBuild(t *testing.T) {
	r := Build(sample(), "  ANA@x.com ")

	assert.Equal(t, 2, r.TotalCourses)
	assert.Equal(t, 2, r.TotalStudents)
	assert.Equal(t, 4, r.TotalViews)
	assert.Equal(t, 2, r.TotalQuestions)
	assert.Equal(t, []LessonViews{
		{LessonID: "les-0-0", LessonTitle: "Massa", CourseTitle: "Bolos", CourseID: "c1", Views: 2},
		{LessonID: "les-0-1", LessonTitle: "Cobertura", CourseTitle: "Bolos", CourseID: "c1", Views: 1},
	}, r.TopLessons)
}

func TestBuildLimitsTopLessons(t *testing.T) {
	c := catalog.NewCollection()
	c.Courses = []catalog.Course{{ID: "c1", OwnerEmail: "i@x.com", Modules: []catalog.Module{titled("a", "b", "c", "d", "e", "f", "g")}}}
	var done []string
	for i := 0; i < 7; i++ {
		done = append(done, fmt.Sprintf("les-0-%d", i))
	}
	c.Users = map[string]*catalog.User{"s@x.com": {Progress: map[string]*catalog.Progress{"c1": {Completed: done}}}}

	r := Build(c, "i@x.com")
	assert.Len(t, r.TopLessons, TopLessonsLimit)
	assert.Equal(t, 7, r.TotalViews)
	assert.Equal(t, 0, r.TotalStudents)
}

func TestBuildUnknownInstructor(t *testing.T) {
	r := Build(sample(), "nobody@x.com")
	assert.Equal(t, &Report{TopLessons: []LessonViews{}}, r)
}

func TestHandleDashboard(t *testing.T) {
	fs := store.NewFileStore(afero.NewMemMapFs(), "data.json")
	require.NoError(t, fs.Save(context.Background(), sample()))

	app := fiber.New()
	require.NoError(t, NewFeature(NewService(store.NewRepository(fs, nil), zap.NewNop())).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/instrutor/ana@x.com/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var r Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Equal(t, 2, r.TotalCourses)
	assert.Len(t, r.TopLessons, 2)
}
