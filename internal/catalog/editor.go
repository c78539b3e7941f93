package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/go-vertrieb/internal/models"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownTable = errors.New("unknown catalog table")
	ErrMissingName  = errors.New("catalog row needs a name")
	ErrRowNotFound  = errors.New("catalog row not found")
)

// Tables lists the editable catalog tables.
func Tables() []string {
	out := make([]string, 0, len(models.CatalogModels))
	for k := range models.CatalogModels {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newRow(table string) (any, error) {
	ctor, ok := models.CatalogModels[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return ctor(), nil
}

// List returns all rows of a table ordered by name.
func (s *Store) List(ctx context.Context, table string) ([]map[string]any, error) {
	row, err := newRow(table)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Model(row).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return rows, nil
}

// Upsert inserts or replaces the row with the same name. Server managed
// fields in body are ignored.
func (s *Store) Upsert(ctx context.Context, table string, body []byte) (any, error) {
	row, err := newRow(table)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}
	for _, k := range []string{"id", "created_at", "updated_at"} {
		delete(fields, k)
	}
	name, _ := fields["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	fields["name"] = name

	clean, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(clean, row); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}

	db := s.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert %s %q: %w", table, name, err)
	}

	stored, _ := newRow(table)
	if err := db.Where("name = ?", name).First(stored).Error; err != nil {
		return nil, fmt.Errorf("reload %s %q: %w", table, name, err)
	}
	s.Invalidate(ctx)
	return stored, nil
}

// Delete removes a row by name.
func (s *Store) Delete(ctx context.Context, table, name string) error {
	row, err := newRow(table)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("name = ?", name).Delete(row)
	if res.Error != nil {
		return fmt.Errorf("delete %s %q: %w", table, name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRowNotFound
	}
	s.Invalidate(ctx)
	return nil
}
