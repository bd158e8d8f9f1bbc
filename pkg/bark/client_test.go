package bark_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/stretchr/testify/require"
)

func TestRestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	admin, err := catalog.NewRestClient(server.URL, adminToken)
	require.NoError(t, err)
	user, err := catalog.NewRestClient(server.URL, userToken)
	require.NoError(t, err)

	milk := records.Grocery{Name: "milk", Price: "1.20", Expiration: "2024-01-01"}
	created, err := admin.GetGroceriesAPI().Create(ctx, access.Anonymous, milk)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := user.GetGroceriesAPI().Get(ctx, access.Anonymous, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = user.GetGroceriesAPI().Delete(ctx, access.Anonymous, created.ID)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	updated, err := admin.GetGroceriesAPI().Update(ctx, access.Anonymous, created.ID, records.Grocery{Name: "oat milk", Price: "2.10", Expiration: "2024-02-01"})
	require.NoError(t, err)
	require.Equal(t, "oat milk", updated.Name)

	all, err := user.GetGroceriesAPI().List(ctx, access.Anonymous)
	require.NoError(t, err)
	require.Equal(t, []records.Grocery{updated}, all)

	deleted, err := admin.GetGroceriesAPI().Delete(ctx, access.Anonymous, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Grocery with id 1 deleted", deleted.Message)

	_, err = user.GetGroceriesAPI().Get(ctx, access.Anonymous, created.ID)
	require.ErrorIs(t, err, catalog.ErrResourceNotFound)
	require.EqualError(t, err, "EntityNotFoundException: Grocery with id 1 not found")
}

func TestRestClient_Hotels(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	admin, err := catalog.NewRestClient(server.URL, adminToken)
	require.NoError(t, err)

	created, err := admin.GetHotelsAPI().Create(ctx, access.Anonymous, records.Hotel{Name: "Grand Budapest", Address: "Zubrowka", Description: "pink"})
	require.NoError(t, err)
	require.Equal(t, "Grand Budapest", created.Name)

	got, err := admin.GetHotelsAPI().Get(ctx, access.Anonymous, "Grand Budapest")
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestRestClient_Identity(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	anonymous, err := catalog.NewRestClient(server.URL, "")
	require.NoError(t, err)

	_, err = anonymous.CurrentUser(ctx)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	info, err := anonymous.SystemInfo(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, info.GoVersion)

	forged, err := catalog.NewRestClient(server.URL, "forged")
	require.NoError(t, err)
	_, err = forged.GetSongsAPI().List(ctx, access.Anonymous)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	user, err := catalog.NewRestClient(server.URL, userToken)
	require.NoError(t, err)
	_, err = user.Users(ctx)
	require.ErrorIs(t, err, access.ErrAccessDenied)

	current, err := user.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "user@example.org", current.Email)
}
