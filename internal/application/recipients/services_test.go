package recipients_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/bryanwahyu/siren-alert/internal/application/recipients"
	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/recipients"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/memory"
)

func newService() *app.Service {
	return &app.Service{Repo: memory.NewSeeded().Recipients()}
}

func TestCreateValidatesAndStores(t *testing.T) {
	svc := newService()
	ctx := t.Context()

	r, err := svc.Create(ctx, app.Input{Name: " 홍길동 ", Email: "hong@kosha.or.kr", Group: "안전관리팀"})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "홍길동", r.Name)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	emails, err := svc.Emails(ctx, "안전관리팀")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kim@kosha.or.kr", "park@kosha.or.kr", "hong@kosha.or.kr"}, emails)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newService()
	inputs := map[string]app.Input{
		"no name":   {Email: "a@b.kr"},
		"no email":  {Name: "a"},
		"bad email": {Name: "a", Email: "not-an-email"},
		"display":   {Name: "a", Email: "A <a@b.kr>"},
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(t.Context(), in)
			assert.ErrorIs(t, err, ai.ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalid)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService()
	ctx := t.Context()

	r, err := svc.Update(ctx, "2", app.Input{Name: "이영희", Email: "lee2@kosha.or.kr", Group: "안전관리팀"})
	require.NoError(t, err)
	assert.Equal(t, "lee2@kosha.or.kr", r.Email)

	_, err = svc.Update(ctx, "2", app.Input{Name: "", Email: "lee2@kosha.or.kr"})
	assert.ErrorIs(t, err, ai.ErrInvalidInput)

	_, err = svc.Update(ctx, "404", app.Input{Name: "x", Email: "x@y.kr"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "2"))
	_, err = svc.Get(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSearchAndGroup(t *testing.T) {
	svc := newService()
	ctx := t.Context()

	list, err := svc.List(ctx, domain.Filter{Search: " kosha "})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = svc.List(ctx, domain.Filter{Group: "현장소장"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "정우성", list[0].Name)

	all, err := svc.Emails(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
