package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
	"github.com/stretchr/testify/require"
)

var (
	userCaller  = access.NewCaller("user@example.org", "Regular User", access.RoleUser)
	adminCaller = access.NewCaller("admin@example.org", "Admin", access.RoleAdmin)
)

func zelda() records.Game {
	return records.Game{
		Name:        "the Legend of Zelda",
		Description: "Play as link and save the princess",
		Genre:       "open world",
	}
}

func TestResourceApi_GameScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(records.GameDescriptor)
	api := catalog.NewResourceApi(records.GameDescriptor, store)

	created, err := api.Create(ctx, adminCaller, zelda())
	require.NoError(t, err)
	require.NotEqual(t, wyrd.InvalidResourceID, created.ID)

	expected := zelda()
	expected.ID = created.ID
	require.Equal(t, expected, created)

	all, err := api.List(ctx, userCaller)
	require.NoError(t, err)
	require.Contains(t, all, created)

	deleted, err := api.Delete(ctx, adminCaller, created.ID)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("Game with id %d deleted", created.ID), deleted.Message)

	_, err = api.Get(ctx, userCaller, created.ID)
	require.ErrorIs(t, err, catalog.ErrResourceNotFound)
	require.EqualError(t, err, fmt.Sprintf("Game with id %d not found", created.ID))
}

func TestResourceApi_UpdateMissingSong(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(records.SongDescriptor)
	api := catalog.NewResourceApi(records.SongDescriptor, store)

	_, err := api.Update(ctx, adminCaller, 67, records.Song{Artist: "X", Album: "Y", Year: 2020})
	require.ErrorIs(t, err, catalog.ErrResourceNotFound)
	require.EqualError(t, err, "Song with id 67 not found")

	var notFound *catalog.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "Song", notFound.Name)
	require.Equal(t, 0, store.Len())
}

type keyedCalls struct {
	get    func() error
	update func() error
	delete func() error
}

func keyedCallsFor[T any, K wyrd.ResourceKey](desc wyrd.Descriptor[T, K], id K, entry T) keyedCalls {
	ctx := context.Background()
	api := catalog.NewResourceApi(desc, newMemStore(desc))

	return keyedCalls{
		get:    func() error { _, err := api.Get(ctx, adminCaller, id); return err },
		update: func() error { _, err := api.Update(ctx, adminCaller, id, entry); return err },
		delete: func() error { _, err := api.Delete(ctx, adminCaller, id); return err },
	}
}

func TestResourceApi_NotFoundForEveryKeyedOperation(t *testing.T) {
	testCases := map[string]struct {
		calls  keyedCalls
		expect string
	}{
		"games": {
			calls:  keyedCallsFor(records.GameDescriptor, 42, zelda()),
			expect: "Game with id 42 not found",
		},
		"groceries": {
			calls:  keyedCallsFor(records.GroceryDescriptor, 7, records.Grocery{Name: "milk", Price: "1.20", Expiration: "2024-01-01"}),
			expect: "Grocery with id 7 not found",
		},
		"songs": {
			calls:  keyedCallsFor(records.SongDescriptor, 3, records.Song{Artist: "X", Album: "Y", Year: 2020}),
			expect: "Song with id 3 not found",
		},
		"hotels": {
			calls:  keyedCallsFor(records.HotelDescriptor, "Ritz", records.Hotel{Address: "1 Main St", Description: "cozy"}),
			expect: "Hotel with id Ritz not found",
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			for op, call := range map[string]func() error{"get": test.calls.get, "update": test.calls.update, "delete": test.calls.delete} {
				err := call()
				require.ErrorIs(t, err, catalog.ErrResourceNotFound, op)
				require.EqualError(t, err, test.expect, op)
			}
		})
	}
}

func TestResourceApi_UpdateReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	api := catalog.NewResourceApi(records.GameDescriptor, newMemStore(records.GameDescriptor))

	created, err := api.Create(ctx, adminCaller, zelda())
	require.NoError(t, err)

	replacement := records.Game{
		ID:          created.ID + 100, // Key in the payload is ignored
		Name:        "Tetris",
		Description: "Falling blocks",
		Genre:       "puzzle",
	}
	updated, err := api.Update(ctx, adminCaller, created.ID, replacement)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	fetched, err := api.Get(ctx, userCaller, created.ID)
	require.NoError(t, err)
	require.Equal(t, records.Game{ID: created.ID, Name: "Tetris", Description: "Falling blocks", Genre: "puzzle"}, fetched)

	_, err = api.Get(ctx, userCaller, created.ID+100)
	require.ErrorIs(t, err, catalog.ErrResourceNotFound)
}

func TestResourceApi_CreateIgnoresIncomingGeneratedKey(t *testing.T) {
	ctx := context.Background()
	api := catalog.NewResourceApi(records.SongDescriptor, newMemStore(records.SongDescriptor))

	created, err := api.Create(ctx, adminCaller, records.Song{ID: 999, Artist: "A", Album: "B", Year: 1999})
	require.NoError(t, err)
	require.Equal(t, wyrd.ResourceID(1), created.ID)
}

func TestResourceApi_HotelCreateOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(records.HotelDescriptor)
	api := catalog.NewResourceApi(records.HotelDescriptor, store)

	_, err := api.Create(ctx, adminCaller, records.Hotel{Name: "Ritz", Address: "Paris", Description: "old"})
	require.NoError(t, err)
	_, err = api.Create(ctx, adminCaller, records.Hotel{Name: "Ritz", Address: "London", Description: "new"})
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
	got, err := api.Get(ctx, userCaller, "Ritz")
	require.NoError(t, err)
	require.Equal(t, "London", got.Address)

	deleted, err := api.Delete(ctx, adminCaller, "Ritz")
	require.NoError(t, err)
	require.Equal(t, "Hotel with id Ritz deleted", deleted.Message)
}

func TestResourceApi_Authorization(t *testing.T) {
	ctx := context.Background()
	valid := zelda()
	invalid := records.Game{}

	testCases := map[string]struct {
		caller      access.Caller
		expectAllow map[access.Operation]bool
	}{
		"anonymous": {
			caller:      access.Anonymous,
			expectAllow: map[access.Operation]bool{},
		},
		"user": {
			caller: userCaller,
			expectAllow: map[access.Operation]bool{
				access.OperationList: true,
				access.OperationGet:  true,
			},
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			store := newMemStore(records.GameDescriptor)
			api := catalog.NewResourceApi(records.GameDescriptor, store)

			calls := map[access.Operation]func() error{
				access.OperationList:   func() error { _, err := api.List(ctx, test.caller); return err },
				access.OperationGet:    func() error { _, err := api.Get(ctx, test.caller, 1); return err },
				access.OperationCreate: func() error { _, err := api.Create(ctx, test.caller, valid); return err },
				access.OperationUpdate: func() error { _, err := api.Update(ctx, test.caller, 1, invalid); return err },
				access.OperationDelete: func() error { _, err := api.Delete(ctx, test.caller, 1); return err },
			}

			for op, call := range calls {
				before := store.Calls()
				err := call()
				if test.expectAllow[op] {
					require.NotErrorIs(t, err, access.ErrAccessDenied, op)
					continue
				}

				require.ErrorIs(t, err, access.ErrAccessDenied, op)
				require.Equal(t, before, store.Calls(), "store must not be touched on denied %s", op)
			}
			require.Equal(t, 0, store.Len())
		})
	}
}

func TestResourceApi_AdminMayDoEverything(t *testing.T) {
	ctx := context.Background()
	api := catalog.NewResourceApi(records.GroceryDescriptor, newMemStore(records.GroceryDescriptor))

	created, err := api.Create(ctx, adminCaller, records.Grocery{Name: "milk", Price: "1.20", Expiration: "2024-01-01"})
	require.NoError(t, err)

	_, err = api.List(ctx, adminCaller)
	require.NoError(t, err)
	_, err = api.Get(ctx, adminCaller, created.ID)
	require.NoError(t, err)
	_, err = api.Update(ctx, adminCaller, created.ID, records.Grocery{Name: "oat milk", Price: "2.10", Expiration: "2024-02-01"})
	require.NoError(t, err)
	_, err = api.Delete(ctx, adminCaller, created.ID)
	require.NoError(t, err)
}

func TestResourceApi_Validation(t *testing.T) {
	ctx := context.Background()

	testCases := map[string]records.Song{
		"empty":        {},
		"no-artist":    {Album: "B", Year: 2001},
		"no-album":     {Artist: "A", Year: 2001},
		"no-year":      {Artist: "A", Album: "B"},
		"only-year-id": {ID: 5, Year: 2001},
	}

	for name, tc := range testCases {
		song := tc
		t.Run(name, func(t *testing.T) {
			store := newMemStore(records.SongDescriptor)
			api := catalog.NewResourceApi(records.SongDescriptor, store)

			_, err := api.Create(ctx, adminCaller, song)
			require.ErrorIs(t, err, catalog.ErrInvalidResource)

			var invalid *catalog.ValidationError
			require.True(t, errors.As(err, &invalid))
			require.Equal(t, "Song", invalid.Name)
			require.Equal(t, 0, store.Calls())
		})
	}
}

func TestResourceApi_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(records.GameDescriptor)
	store.err = fmt.Errorf("connection reset")
	api := catalog.NewResourceApi(records.GameDescriptor, store)

	_, err := api.List(ctx, userCaller)
	require.ErrorContains(t, err, "connection reset")

	_, err = api.Get(ctx, userCaller, 1)
	require.ErrorContains(t, err, "connection reset")
	require.NotErrorIs(t, err, catalog.ErrResourceNotFound)
}

func TestResourceApi_ListEmpty(t *testing.T) {
	api := catalog.NewResourceApi(records.HotelDescriptor, newMemStore(records.HotelDescriptor))

	all, err := api.List(context.Background(), userCaller)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)
}

func TestResourceApi_Notifies(t *testing.T) {
	ctx := context.Background()

	var events []catalog.ChangeEvent
	notifier := catalog.NotifierFunc(func(_ context.Context, event catalog.ChangeEvent) error {
		events = append(events, event)
		return fmt.Errorf("queue is down") // Must not fail the write
	})

	api := catalog.NewResourceApi(records.GameDescriptor, newMemStore(records.GameDescriptor), catalog.WithNotifier(notifier))

	created, err := api.Create(ctx, adminCaller, zelda())
	require.NoError(t, err)
	_, err = api.Get(ctx, userCaller, created.ID)
	require.NoError(t, err)
	_, err = api.Update(ctx, adminCaller, created.ID, zelda())
	require.NoError(t, err)
	_, err = api.Delete(ctx, adminCaller, created.ID)
	require.NoError(t, err)

	require.Len(t, events, 3)
	require.Equal(t, access.OperationCreate, events[0].Operation)
	require.Equal(t, access.OperationUpdate, events[1].Operation)
	require.Equal(t, access.OperationDelete, events[2].Operation)
	for _, event := range events {
		require.Equal(t, records.KindGame, event.Kind)
		require.Equal(t, created.ID.String(), event.Key)
		require.Equal(t, "admin@example.org", event.Actor)
	}
}

func TestResourceApi_DeleteOfVanishedRecord(t *testing.T) {
	ctx := context.Background()

	games := vanishingStore[records.Game, wyrd.ResourceID]{newMemStore(records.GameDescriptor)}
	hotels := vanishingStore[records.Hotel, string]{newMemStore(records.HotelDescriptor)}

	var events []catalog.ChangeEvent
	notifier := catalog.NotifierFunc(func(_ context.Context, event catalog.ChangeEvent) error {
		events = append(events, event)
		return nil
	})

	gamesApi := catalog.NewResourceApi(records.GameDescriptor, games, catalog.WithNotifier(notifier))
	hotelsApi := catalog.NewResourceApi(records.HotelDescriptor, hotels, catalog.WithNotifier(notifier))

	game, err := gamesApi.Create(ctx, adminCaller, zelda())
	require.NoError(t, err)
	_, err = hotelsApi.Create(ctx, adminCaller, records.Hotel{Name: "Ritz", Address: "Paris", Description: "fancy"})
	require.NoError(t, err)
	events = nil

	testCases := map[string]struct {
		remove func() error
		lookup func() error
		expect string
	}{
		"game": {
			remove: func() error { _, err := gamesApi.Delete(ctx, adminCaller, game.ID); return err },
			lookup: func() error { _, err := gamesApi.Get(ctx, userCaller, game.ID); return err },
			expect: "Game with id 1 not found",
		},
		"hotel": {
			remove: func() error { _, err := hotelsApi.Delete(ctx, adminCaller, "Ritz"); return err },
			lookup: func() error { _, err := hotelsApi.Get(ctx, userCaller, "Ritz"); return err },
			expect: "Hotel with id Ritz not found",
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			err := test.remove()
			require.ErrorIs(t, err, catalog.ErrResourceNotFound)
			require.EqualError(t, err, test.expect)

			// Same message as a lookup of a record that is not there
			require.EqualError(t, test.lookup(), err.Error())
		})
	}

	require.Empty(t, events)
}
