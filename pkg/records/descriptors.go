package records

import (
	"github.com/sre-norns/catalog/pkg/wyrd"
)

var (
	GameDescriptor = wyrd.Descriptor[Game, wyrd.ResourceID]{
		Kind:         KindGame,
		Name:         "Game",
		GeneratedKey: true,
		GetKey:       func(r *Game) wyrd.ResourceID { return r.ID },
		SetKey:       func(r *Game, id wyrd.ResourceID) { r.ID = id },
		ParseKey:     wyrd.ParseResourceID,
	}

	GroceryDescriptor = wyrd.Descriptor[Grocery, wyrd.ResourceID]{
		Kind:         KindGrocery,
		Name:         "Grocery",
		GeneratedKey: true,
		GetKey:       func(r *Grocery) wyrd.ResourceID { return r.ID },
		SetKey:       func(r *Grocery, id wyrd.ResourceID) { r.ID = id },
		ParseKey:     wyrd.ParseResourceID,
	}

	SongDescriptor = wyrd.Descriptor[Song, wyrd.ResourceID]{
		Kind:         KindSong,
		Name:         "Song",
		GeneratedKey: true,
		GetKey:       func(r *Song) wyrd.ResourceID { return r.ID },
		SetKey:       func(r *Song, id wyrd.ResourceID) { r.ID = id },
		ParseKey:     wyrd.ParseResourceID,
	}

	HotelDescriptor = wyrd.Descriptor[Hotel, string]{
		Kind:     KindHotel,
		Name:     "Hotel",
		GetKey:   func(r *Hotel) string { return r.Name },
		SetKey:   func(r *Hotel, name string) { r.Name = name },
		ParseKey: wyrd.ParseResourceName,
	}

	UserDescriptor = wyrd.Descriptor[User, wyrd.ResourceID]{
		Kind:         KindUser,
		Name:         "User",
		GeneratedKey: true,
		GetKey:       func(r *User) wyrd.ResourceID { return r.ID },
		SetKey:       func(r *User, id wyrd.ResourceID) { r.ID = id },
		ParseKey:     wyrd.ParseResourceID,
	}
)

func init() {
	// Prototypes are known structs, registration can not fail
	for kind, proto := range map[wyrd.Kind]any{
		KindGame:    &Game{},
		KindGrocery: &Grocery{},
		KindSong:    &Song{},
		KindHotel:   &Hotel{},
		KindUser:    &User{},
	} {
		_ = wyrd.RegisterKind(kind, proto)
	}
}
