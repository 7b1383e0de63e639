package learner

import (
	"context"
	"testing"
	"time"

	"course-manager/core/store"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 5, 2, 8, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := store.NewRepository(store.NewFileStore(afero.NewMemMapFs(), "data.json"), nil)
	svc := NewService(repo, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	svc.rand = func() int { return 4242 }
	return svc
}

func TestLists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	lists, err := svc.Lists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, Lists{MyCourses: []string{}, Favorites: []string{}}, lists)

	_, err = svc.SetEnrolled(ctx, "a@x.com", "", false)
	assert.ErrorIs(t, err, ErrValidation)

	mine, err := svc.SetEnrolled(ctx, "a@x.com", "c1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, mine)
	mine, err = svc.SetEnrolled(ctx, "a@x.com", "c1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, mine)

	favs, err := svc.SetFavorite(ctx, "a@x.com", "c2", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, favs)
	favs, err = svc.SetFavorite(ctx, "a@x.com", "c2", true)
	require.NoError(t, err)
	assert.Empty(t, favs)

	lists, err = svc.Lists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, lists.MyCourses)
	assert.Empty(t, lists.Favorites)
}

func TestSignature(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sig, err := svc.Signature(ctx, "i@x.com")
	require.NoError(t, err)
	assert.Nil(t, sig)

	_, err = svc.SetSignature(ctx, "i@x.com", " ", "Cursive")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetSignature(ctx, "i@x.com", "Ana", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetSignature(ctx, "i@x.com", "  Ana Maria ", " Cursive ")
	require.NoError(t, err)
	sig, err = svc.Signature(ctx, "i@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", sig.Text)
	assert.Equal(t, "Cursive", sig.Font)
	assert.True(t, testNow.Equal(sig.UpdatedAt))
}

func TestProgress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetProgress(ctx, "a@x.com", "c1", "", true)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetProgress(ctx, "a@x.com", "c1", "les-0-0", true)
	require.NoError(t, err)
	_, err = svc.SetProgress(ctx, "a@x.com", "c1", "les-0-1", true)
	require.NoError(t, err)
	p, err := svc.SetProgress(ctx, "a@x.com", "c1", "les-0-0", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"les-0-1"}, p["c1"].Completed)

	p, err = svc.Progress(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"les-0-1"}, p["c1"].Completed)

	p, err = svc.Progress(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestCertificates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.IssueCertificate(ctx, "a@x.com", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	certs, err := svc.IssueCertificate(ctx, "a@x.com", "course-abcdef", "")
	require.NoError(t, err)
	cert := certs["course-abcdef"]
	require.NotNil(t, cert)
	assert.Equal(t, "RM-ABCDEF-4242", cert.Code)
	assert.Equal(t, testNow.Format(time.RFC3339Nano), cert.CompletedAt)

	// Issued once.
	svc.rand = func() int { return 1 }
	certs, err = svc.IssueCertificate(ctx, "a@x.com", "course-abcdef", "2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, "RM-ABCDEF-4242", certs["course-abcdef"].Code)

	certs, err = svc.IssueCertificate(ctx, "a@x.com", "xy", "2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, "RM-XY-1", certs["xy"].Code)
	assert.Equal(t, "2020-01-01", certs["xy"].CompletedAt)

	v, ok, err := svc.Verify(ctx, "RM-ABCDEF-4242")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Verified{Email: "a@x.com", CourseID: "course-abcdef", Code: "RM-ABCDEF-4242", CompletedAt: cert.CompletedAt}, *v)

	_, ok, err = svc.Verify(ctx, "RM-NOPE-0")
	require.NoError(t, err)
	assert.False(t, ok)
}
