package question

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := store.NewRepository(store.NewFileStore(afero.NewMemMapFs(), "data.json"), nil)
	require.NoError(t, repo.Update(context.Background(), func(c *catalog.Collection) error {
		c.Courses = append(c.Courses, catalog.Course{ID: "c1", Title: "Curso"})
		return nil
	}))
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

var post = Post{AuthorEmail: "a@x.com", AuthorName: "Ana", Text: "Como?"}

func TestQuestionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	q, err := svc.Ask(ctx, "c1", post)
	require.NoError(t, err)
	assert.Equal(t, "id-1", q.ID)
	assert.Equal(t, testNow, q.CreatedAt)
	assert.NotNil(t, q.Answers)

	edited, err := svc.Edit(ctx, "c1", q.ID, "Como assim?")
	require.NoError(t, err)
	assert.Equal(t, "Como assim?", edited.Text)
	require.NotNil(t, edited.UpdatedAt)

	a, err := svc.Answer(ctx, "c1", q.ID, Post{AuthorEmail: "i@x.com", AuthorName: "Instrutor", Text: "Assim."})
	require.NoError(t, err)
	assert.Equal(t, "id-2", a.ID)

	list, err = svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Answers, 1)
	assert.Equal(t, "Assim.", list[0].Answers[0].Text)

	require.NoError(t, svc.Remove(ctx, "c1", q.ID))
	require.NoError(t, svc.Remove(ctx, "c1", "unknown"))
	list, err = svc.List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestQuestionErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, "nope")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.Ask(ctx, "nope", post)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.Ask(ctx, "c1", Post{AuthorEmail: "a@x.com", Text: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Edit(ctx, "c1", "missing", "x")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	_, err = svc.Answer(ctx, "c1", "missing", post)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	q, err := svc.Ask(ctx, "c1", post)
	require.NoError(t, err)
	_, err = svc.Edit(ctx, "c1", q.ID, " ")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestQuestionHandlers(t *testing.T) {
	app := fiber.New()
	require.NoError(t, NewFeature(newTestService(t)).Load(app))

	do := func(method, path, body string) (int, map[string]any) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		out := map[string]any{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	status, out := do("POST", "/cursos/c1/perguntas", `{"autorEmail":"a@x.com","autorNome":"Ana","texto":"Oi?"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "id-1", out["pergunta"].(map[string]any)["id"])

	status, out = do("POST", "/cursos/c1/perguntas", `{"texto":"Oi?"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "autorEmail, autorNome e texto obrigatorios.", out["error"])

	status, _ = do("PUT", "/cursos/c1/perguntas/id-1", `{"texto":"Ola?"}`)
	assert.Equal(t, fiber.StatusOK, status)
	status, out = do("PUT", "/cursos/c1/perguntas/id-1", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "texto obrigatorio.", out["error"])

	status, out = do("POST", "/cursos/c1/perguntas/id-1/respostas", `{"autorEmail":"i@x.com","autorNome":"I","texto":"Sim"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Sim", out["resposta"].(map[string]any)["texto"])

	status, out = do("GET", "/cursos/c1/perguntas", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["perguntas"], 1)

	status, out = do("GET", "/cursos/zz/perguntas", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Curso nao encontrado.", out["error"])

	status, out = do("POST", "/cursos/c1/perguntas/zz/respostas", `{"autorEmail":"i@x.com","autorNome":"I","texto":"Sim"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Pergunta nao encontrada.", out["error"])

	status, out = do("DELETE", "/cursos/c1/perguntas/id-1", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Pergunta removida.", out["message"])
}
