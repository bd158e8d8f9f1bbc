package records_test

import (
	"testing"

	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
	"github.com/stretchr/testify/require"
)

func TestModels(t *testing.T) {
	require.ElementsMatch(t, []any{
		&records.Game{},
		&records.Grocery{},
		&records.Song{},
		&records.Hotel{},
		&records.User{},
	}, records.Models())
}

func TestDescriptors_Keys(t *testing.T) {
	game := records.Game{Name: "Zelda"}
	records.GameDescriptor.SetKey(&game, 3)
	require.Equal(t, wyrd.ResourceID(3), records.GameDescriptor.GetKey(&game))

	hotel := records.Hotel{}
	records.HotelDescriptor.SetKey(&hotel, "Ritz")
	require.Equal(t, "Ritz", records.HotelDescriptor.GetKey(&hotel))
	require.False(t, records.HotelDescriptor.GeneratedKey)

	testCases := map[string]struct {
		parse       func(string) error
		given       string
		expectError bool
	}{
		"game-id":        {parse: parseWith(records.GameDescriptor), given: "67"},
		"game-zero":      {parse: parseWith(records.GameDescriptor), given: "0"},
		"song-not-num":   {parse: parseWith(records.SongDescriptor), given: "abc", expectError: true},
		"hotel-name":     {parse: parseWith(records.HotelDescriptor), given: "Grand Budapest"},
		"hotel-no-name":  {parse: parseWith(records.HotelDescriptor), given: "  ", expectError: true},
		"grocery-id":     {parse: parseWith(records.GroceryDescriptor), given: "1"},
		"grocery-signed": {parse: parseWith(records.GroceryDescriptor), given: "-1"},
		"grocery-float":  {parse: parseWith(records.GroceryDescriptor), given: "1.5", expectError: true},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			err := test.parse(test.given)
			if test.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func parseWith[T any, K wyrd.ResourceKey](desc wyrd.Descriptor[T, K]) func(string) error {
	return func(value string) error {
		_, err := desc.ParseKey(value)
		return err
	}
}
