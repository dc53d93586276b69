package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/model"
)

// kindSpec maps a reference kind to its table and optional columns.
type kindSpec struct {
	table     string
	hasDesc   bool
	hasOrigin bool
}

var kinds = map[catalog.Kind]kindSpec{
	catalog.KindCategory: {table: "categories", hasDesc: true},
	catalog.KindGender:   {table: "genders"},
	catalog.KindSeason:   {table: "seasons"},
	catalog.KindBrand:    {table: "brands", hasOrigin: true},
	catalog.KindSize:     {table: "sizes"},
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func spec(kind catalog.Kind) (kindSpec, error) {
	s, ok := kinds[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	return s, nil
}

func (s kindSpec) columns() []string {
	cols := []string{"id", "name", "created_at", "updated_at"}
	if s.hasDesc {
		cols = append(cols, "description")
	}
	if s.hasOrigin {
		cols = append(cols, "origin_country")
	}
	return cols
}

func (r *PGRepository) Create(ctx context.Context, kind catalog.Kind, ref *model.Reference) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}

	cols := s.columns()
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = ":" + c
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	_, err = r.DB.NamedExecContext(ctx, query, ref)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, kind catalog.Kind, id string) (*model.Reference, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}

	var ref model.Reference
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 LIMIT 1", s.table)
	err = r.DB.GetContext(ctx, &ref, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *PGRepository) FindByName(ctx context.Context, kind catalog.Kind, name string, caseInsensitive bool) (*model.Reference, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}

	cond := "name = $1"
	if caseInsensitive {
		cond = "LOWER(name) = LOWER($1)"
	}

	var ref model.Reference
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT 1", s.table, cond)
	err = r.DB.GetContext(ctx, &ref, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *PGRepository) FindAll(ctx context.Context, kind catalog.Kind) ([]model.Reference, error) {
	s, err := spec(kind)
	if err != nil {
		return nil, err
	}

	var refs []model.Reference
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY name ASC", s.table)
	err = r.DB.SelectContext(ctx, &refs, query)
	return refs, err
}

func (r *PGRepository) Update(ctx context.Context, kind catalog.Kind, ref *model.Reference) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}

	sets := []string{"name = :name", "updated_at = :updated_at"}
	if s.hasDesc {
		sets = append(sets, "description = :description")
	}
	if s.hasOrigin {
		sets = append(sets, "origin_country = :origin_country")
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", s.table, strings.Join(sets, ", "))
	_, err = r.DB.NamedExecContext(ctx, query, ref)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	s, err := spec(kind)
	if err != nil {
		return err
	}

	// Product foreign keys are ON DELETE SET NULL, so deleting a reference
	// detaches it from products without cascading.
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)
	_, err = r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *PGRepository) SizeIDsByName(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	err := r.DB.SelectContext(ctx, &rows, "SELECT id, name FROM sizes")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}
