package catalog

import (
	"context"
	"runtime"
	"runtime/debug"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
	"golang.org/x/mod/semver"
)

type (
	GamesApi     = ResourceApi[records.Game, wyrd.ResourceID]
	GroceriesApi = ResourceApi[records.Grocery, wyrd.ResourceID]
	SongsApi     = ResourceApi[records.Song, wyrd.ResourceID]
	HotelsApi    = ResourceApi[records.Hotel, string]
)

// UsersApi gives administrators a view of identities that used the service
type UsersApi interface {
	ReadableResourceApi[records.User, wyrd.ResourceID]

	// Current describes the caller itself
	Current(ctx context.Context, caller access.Caller) (CurrentUser, error)
}

type Service interface {
	GetGamesAPI() GamesApi
	GetGroceriesAPI() GroceriesApi
	GetSongsAPI() SongsApi
	GetHotelsAPI() HotelsApi

	GetUsersAPI() UsersApi

	GetSystemInfo() SystemInfo
}

// Stores groups record stores for every type the service manages
type Stores struct {
	Games     Store[records.Game, wyrd.ResourceID]
	Groceries Store[records.Grocery, wyrd.ResourceID]
	Songs     Store[records.Song, wyrd.ResourceID]
	Hotels    Store[records.Hotel, string]
	Users     Store[records.User, wyrd.ResourceID]
}

func NewService(stores Stores, opts ...ResourceOption) Service {
	return &serviceImpl{
		games:     NewResourceApi(records.GameDescriptor, stores.Games, opts...),
		groceries: NewResourceApi(records.GroceryDescriptor, stores.Groceries, opts...),
		songs:     NewResourceApi(records.SongDescriptor, stores.Songs, opts...),
		hotels:    NewResourceApi(records.HotelDescriptor, stores.Hotels, opts...),
		users: &usersApiImpl{
			ReadableResourceApi: NewResourceApi(records.UserDescriptor, stores.Users, append(opts[:len(opts):len(opts)], WithPolicy(access.AdminOnlyPolicy))...),
		},
	}
}

type (
	serviceImpl struct {
		games     GamesApi
		groceries GroceriesApi
		songs     SongsApi
		hotels    HotelsApi
		users     UsersApi
	}

	usersApiImpl struct {
		ReadableResourceApi[records.User, wyrd.ResourceID]
	}
)

func (s *serviceImpl) GetGamesAPI() GamesApi {
	return s.games
}

func (s *serviceImpl) GetGroceriesAPI() GroceriesApi {
	return s.groceries
}

func (s *serviceImpl) GetSongsAPI() SongsApi {
	return s.songs
}

func (s *serviceImpl) GetHotelsAPI() HotelsApi {
	return s.hotels
}

func (s *serviceImpl) GetUsersAPI() UsersApi {
	return s.users
}

func (s *serviceImpl) GetSystemInfo() SystemInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return SystemInfo{
			Version:   "unknown",
			GoVersion: runtime.Version(),
		}
	}

	return NewSystemInfo(bi.Main.Version, bi.GoVersion)
}

func NewSystemInfo(version, goVersion string) SystemInfo {
	info := SystemInfo{
		Version:   version,
		GoVersion: goVersion,
	}
	if semver.IsValid(version) {
		info.MajorVersion = semver.Major(version)
	}

	return info
}

func (u *usersApiImpl) Current(_ context.Context, caller access.Caller) (CurrentUser, error) {
	if !caller.IsAuthenticated() {
		return CurrentUser{}, &access.DeniedError{
			Operation: access.OperationGet,
			Required:  access.RoleUser,
			Granted:   caller.Roles,
		}
	}

	return CurrentUser{
		User:  caller.Name,
		Email: caller.Email,
		Roles: caller.Roles,
	}, nil
}
