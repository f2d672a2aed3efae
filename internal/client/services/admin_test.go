package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/collectadmin/internal/client/client"
	"github.com/dmitrijs2005/collectadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/collectadmin/internal/common"
	"github.com/dmitrijs2005/collectadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token string

	loginRes *client.LoginResult
	loginErr error
	logouts  int

	lists     map[client.Resource]string
	listErr   map[client.Resource]error
	listCalls map[client.Resource]int

	created   json.RawMessage
	createErr error
	deleteErr error
	deleted   []string

	export    *client.ExportResult
	exportErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		lists:     map[client.Resource]string{},
		listErr:   map[client.Resource]error{},
		listCalls: map[client.Resource]int{},
	}
}

func (f *fakeAPI) SetToken(t string) { f.token = t }
func (f *fakeAPI) Token() string     { return f.token }

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*client.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = f.loginRes.Token
	return f.loginRes, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logouts++
	f.token = ""
	return nil
}

func (f *fakeAPI) List(_ context.Context, r client.Resource) (json.RawMessage, error) {
	f.listCalls[r]++
	if err := f.listErr[r]; err != nil {
		return nil, err
	}
	body, ok := f.lists[r]
	if !ok {
		body = "[]"
	}
	return json.RawMessage(body), nil
}

func (f *fakeAPI) Create(_ context.Context, _ client.Resource, _ any) (json.RawMessage, error) {
	return f.created, f.createErr
}

func (f *fakeAPI) Delete(_ context.Context, r client.Resource, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fmt.Sprintf("%s/%s", r, id))
	return nil
}

func (f *fakeAPI) Export(_ context.Context, _ client.Resource) (*client.ExportResult, error) {
	return f.export, f.exportErr
}

func newService(t *testing.T) (*AdminService, *fakeAPI, *client.Repositories) {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	api := newFakeAPI()
	s := NewAdminService(api, repos.DB, logging.Nop())
	s.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	return s, api, repos
}

func loggedIn(t *testing.T, s *AdminService, api *fakeAPI) {
	t.Helper()
	api.loginRes = &client.LoginResult{Token: "tok", User: client.User{ID: "u1", Email: "ops@example.com"}}
	_, err := s.Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)
}

func TestLogin_PersistsSession(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()

	loggedIn(t, s, api)

	assert.True(t, s.LoggedIn())
	assert.Equal(t, "ops@example.com", s.CurrentUser())

	tok, err := repos.Metadata.Get(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok"), tok)

	other, otherAPI, _ := newService(t)
	other.db = repos.DB
	ok, err := other.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", otherAPI.token)
	assert.Equal(t, "ops@example.com", other.CurrentUser())
}

func TestLogin_Failure(t *testing.T) {
	s, api, repos := newService(t)
	api.loginErr = client.ErrInvalidCredentials

	_, err := s.Login(context.Background(), "x@y.z", "bad")
	assert.ErrorIs(t, err, client.ErrInvalidCredentials)
	assert.False(t, s.LoggedIn())

	tok, err := repos.Metadata.Get(context.Background(), metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRestore_NothingSaved(t *testing.T) {
	s, _, _ := newService(t)

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.CurrentUser())
}

func TestLogout_ClearsSessionAndCache(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()
	loggedIn(t, s, api)

	_, err := s.List(ctx, client.ResourceUsers, false)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, 1, api.logouts)
	assert.False(t, s.LoggedIn())

	tok, err := repos.Metadata.Get(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Nil(t, tok)

	snap, err := repos.Snapshots.Get(ctx, string(client.ResourceUsers))
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestList_ServesCacheUntilRefresh(t *testing.T) {
	s, api, _ := newService(t)
	ctx := context.Background()
	api.lists[client.ResourceVehicles] = `[{"id":"v1","capacity":12,"company":{"name":"Acme"}}]`

	first, err := s.List(ctx, client.ResourceVehicles, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, json.Number("12"), first.Rows[0]["capacity"])

	api.lists[client.ResourceVehicles] = `[]`

	second, err := s.List(ctx, client.ResourceVehicles, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Len(t, second.Rows, 1)
	assert.Equal(t, 1, api.listCalls[client.ResourceVehicles])

	third, err := s.List(ctx, client.ResourceVehicles, true)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Empty(t, third.Rows)
	assert.Equal(t, 2, api.listCalls[client.ResourceVehicles])
}

func TestList_RefreshFailsWhenUnavailable(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()
	api.lists[client.ResourceCompanies] = `[{"id":"c1"}]`

	_, err := s.List(ctx, client.ResourceCompanies, false)
	require.NoError(t, err)

	api.listErr[client.ResourceCompanies] = client.ErrUnavailable
	got, err := s.List(ctx, client.ResourceCompanies, true)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.NotErrorIs(t, err, client.ErrLocalDataNotAvailable)
	assert.Nil(t, got)

	snap, err := repos.Snapshots.Get(ctx, string(client.ResourceCompanies))
	require.NoError(t, err)
	require.NotNil(t, snap, "a failed refresh keeps the snapshot")

	cached, err := s.List(ctx, client.ResourceCompanies, false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Len(t, cached.Rows, 1)
}

func TestList_UnavailableWithoutCache(t *testing.T) {
	s, api, _ := newService(t)
	api.listErr[client.ResourceUsers] = client.ErrUnavailable

	_, err := s.List(context.Background(), client.ResourceUsers, false)
	assert.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestList_UnauthorizedDropsSession(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()
	loggedIn(t, s, api)
	api.listErr[client.ResourceUsers] = client.ErrUnauthorized

	_, err := s.List(ctx, client.ResourceUsers, false)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, s.LoggedIn())

	tok, err := repos.Metadata.Get(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestCreate_RefetchesAffected(t *testing.T) {
	tests := []struct {
		resource client.Resource
		refetch  []client.Resource
		untouch  []client.Resource
	}{
		{client.ResourceCompanies, []client.Resource{client.ResourceCompanies, client.ResourceVehicles}, []client.Resource{client.ResourceUsers}},
		{client.ResourceVehicles, []client.Resource{client.ResourceVehicles}, []client.Resource{client.ResourceCompanies}},
		{client.ResourceCollectionPoints, []client.Resource{client.ResourceCollectionPoints}, []client.Resource{client.ResourceVehicles}},
	}

	for _, tt := range tests {
		t.Run(string(tt.resource), func(t *testing.T) {
			s, api, _ := newService(t)
			ctx := context.Background()
			for _, r := range client.Resources {
				_, err := s.List(ctx, r, false)
				require.NoError(t, err)
			}

			api.created = json.RawMessage(`{"id":"new","name":"X"}`)
			row, err := s.Create(ctx, tt.resource, map[string]string{"name": "X"})
			require.NoError(t, err)
			assert.Equal(t, "new", row["id"])

			for _, r := range tt.refetch {
				assert.Equal(t, 2, api.listCalls[r], r)
			}
			for _, r := range tt.untouch {
				assert.Equal(t, 1, api.listCalls[r], r)
			}
		})
	}
}

func TestCreate_ValidationErrorKeepsCache(t *testing.T) {
	s, api, _ := newService(t)
	ctx := context.Background()
	_, err := s.List(ctx, client.ResourceUsers, false)
	require.NoError(t, err)

	api.createErr = common.NewValidationError("missing required fields: email")
	_, err = s.Create(ctx, client.ResourceUsers, map[string]string{"name": "A"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 1, api.listCalls[client.ResourceUsers])
}

func TestDelete_CompanyConflict(t *testing.T) {
	s, api, _ := newService(t)
	ctx := context.Background()
	loggedIn(t, s, api)
	api.deleteErr = common.ErrorConflict

	err := s.Delete(ctx, client.ResourceCompanies, "c1")
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.True(t, s.LoggedIn())
	assert.Zero(t, api.listCalls[client.ResourceVehicles])
}

func TestDelete_InvalidatesAndRefetches(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()
	api.lists[client.ResourceCompanies] = `[{"id":"c1"}]`
	_, err := s.List(ctx, client.ResourceCompanies, false)
	require.NoError(t, err)

	api.lists[client.ResourceCompanies] = `[]`
	require.NoError(t, s.Delete(ctx, client.ResourceCompanies, "c1"))
	assert.Equal(t, []string{"companies/c1"}, api.deleted)

	snap, err := repos.Snapshots.Get(ctx, string(client.ResourceCompanies))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.JSONEq(t, `[]`, string(snap.Payload))

	snap, err = repos.Snapshots.Get(ctx, string(client.ResourceVehicles))
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestDelete_RefetchFailureLeavesSnapshotAbsent(t *testing.T) {
	s, api, repos := newService(t)
	ctx := context.Background()
	_, err := s.List(ctx, client.ResourceVehicles, false)
	require.NoError(t, err)

	api.listErr[client.ResourceVehicles] = errors.New("boom")
	require.NoError(t, s.Delete(ctx, client.ResourceVehicles, "v1"))

	snap, err := repos.Snapshots.Get(ctx, string(client.ResourceVehicles))
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestExport(t *testing.T) {
	s, api, _ := newService(t)
	api.export = &client.ExportResult{Key: "k", URL: "u"}

	res, err := s.Export(context.Background(), client.ResourceUsers)
	require.NoError(t, err)
	assert.Equal(t, "k", res.Key)

	api.exportErr = common.ErrorExportDisabled
	_, err = s.Export(context.Background(), client.ResourceUsers)
	assert.ErrorIs(t, err, common.ErrorExportDisabled)
}
