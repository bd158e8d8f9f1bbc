// Package records declares the record types managed by the catalog service.
//
// Every record is a standalone aggregate stored in its own table. Field order
// of each struct is the order of fields in API responses.
package records

import (
	"github.com/sre-norns/catalog/pkg/wyrd"
)

const (
	KindGame    wyrd.Kind = "games"
	KindGrocery wyrd.Kind = "groceries"
	KindSong    wyrd.Kind = "songs"
	KindHotel   wyrd.Kind = "hotels"
	KindUser    wyrd.Kind = "users"
)

type (
	Game struct {
		ID          wyrd.ResourceID `gorm:"primaryKey" form:"-" json:"id" yaml:"id" xml:"id"`
		Name        string          `form:"name" json:"name" yaml:"name" xml:"name" binding:"required"`
		Description string          `form:"description" json:"description" yaml:"description" xml:"description" binding:"required"`
		Genre       string          `form:"genre" json:"genre" yaml:"genre" xml:"genre" binding:"required"`
	}

	// Grocery uses the price/expiration attribute set, both kept as free text.
	Grocery struct {
		ID         wyrd.ResourceID `gorm:"primaryKey" form:"-" json:"id" yaml:"id" xml:"id"`
		Name       string          `form:"name" json:"name" yaml:"name" xml:"name" binding:"required"`
		Price      string          `form:"price" json:"price" yaml:"price" xml:"price" binding:"required"`
		Expiration string          `form:"expiration" json:"expiration" yaml:"expiration" xml:"expiration" binding:"required"`
	}

	Song struct {
		ID     wyrd.ResourceID `gorm:"primaryKey" form:"-" json:"id" yaml:"id" xml:"id"`
		Artist string          `form:"artist" json:"artist" yaml:"artist" xml:"artist" binding:"required"`
		Album  string          `form:"album" json:"album" yaml:"album" xml:"album" binding:"required"`
		Year   int             `form:"year" json:"year" yaml:"year" xml:"year" binding:"required"`
	}

	// Hotel is keyed by its name, there is no server-assigned id.
	Hotel struct {
		Name        string `gorm:"primaryKey" form:"name" json:"name" yaml:"name" xml:"name" binding:"required"`
		Address     string `form:"address" json:"address" yaml:"address" xml:"address" binding:"required"`
		Description string `form:"description" json:"description" yaml:"description" xml:"description" binding:"required"`
	}

	// User is an identity that has called the API at least once.
	User struct {
		ID         wyrd.ResourceID `gorm:"primaryKey" json:"id" yaml:"id" xml:"id"`
		Email      string          `gorm:"uniqueIndex;not null" json:"email" yaml:"email" xml:"email"`
		GivenName  string          `json:"givenName" yaml:"givenName" xml:"givenName"`
		FamilyName string          `json:"familyName" yaml:"familyName" xml:"familyName"`
		FullName   string          `json:"fullName" yaml:"fullName" xml:"fullName"`
		Admin      bool            `json:"admin" yaml:"admin" xml:"admin"`
	}
)

func (Game) TableName() string    { return string(KindGame) }
func (Grocery) TableName() string { return string(KindGrocery) }
func (Song) TableName() string    { return string(KindSong) }
func (Hotel) TableName() string   { return string(KindHotel) }
func (User) TableName() string    { return string(KindUser) }

// Models lists prototypes of every table the service owns
func Models() []any {
	kinds := wyrd.Kinds()
	models := make([]any, 0, len(kinds))
	for _, kind := range kinds {
		// Every registered kind is a known record type
		model, _ := wyrd.InstanceOf(kind)
		models = append(models, model)
	}

	return models
}
