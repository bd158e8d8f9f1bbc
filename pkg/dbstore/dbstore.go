package dbstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/records"
	"github.com/sre-norns/catalog/pkg/wyrd"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoPrimaryKey = fmt.Errorf("model has no primary key")

// Table is a gorm backed record store for a single record type
type Table[T any, K wyrd.ResourceKey] struct {
	db        *gorm.DB
	table     string
	keyColumn string
}

// NewTable resolves the table and primary key column of T from its gorm schema
func NewTable[T any, K wyrd.ResourceKey](db *gorm.DB) (*Table[T, K], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, err
	}

	primary := stmt.Schema.PrioritizedPrimaryField
	if primary == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoPrimaryKey, stmt.Schema.Table)
	}

	return &Table[T, K]{
		db:        db,
		table:     stmt.Schema.Table,
		keyColumn: primary.DBName,
	}, nil
}

func (s *Table[T, K]) Name() string {
	return s.table
}

func (s *Table[T, K]) byKey(id K) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: s.keyColumn}, Value: id}
}

func (s *Table[T, K]) FindAll(ctx context.Context) ([]T, error) {
	var results []T
	tx := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: s.keyColumn}}).Find(&results)

	return results, tx.Error
}

func (s *Table[T, K]) FindByID(ctx context.Context, id K) (T, bool, error) {
	var result T
	tx := s.db.WithContext(ctx).Where(s.byKey(id)).First(&result)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return result, false, nil
	}

	return result, tx.RowsAffected == 1, tx.Error
}

// Save upserts the record. A zero generated key makes the database assign one.
func (s *Table[T, K]) Save(ctx context.Context, entry *T) error {
	return s.db.WithContext(ctx).Save(entry).Error
}

func (s *Table[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	tx := s.db.WithContext(ctx).Where(s.byKey(id)).Delete(new(T))

	return tx.RowsAffected == 1, tx.Error
}

// NewStores creates a table store for every record type of the catalog
func NewStores(db *gorm.DB) (stores catalog.Stores, err error) {
	if stores.Games, err = NewTable[records.Game, wyrd.ResourceID](db); err != nil {
		return
	}
	if stores.Groceries, err = NewTable[records.Grocery, wyrd.ResourceID](db); err != nil {
		return
	}
	if stores.Songs, err = NewTable[records.Song, wyrd.ResourceID](db); err != nil {
		return
	}
	if stores.Hotels, err = NewTable[records.Hotel, string](db); err != nil {
		return
	}

	stores.Users, err = NewTable[records.User, wyrd.ResourceID](db)
	return
}
