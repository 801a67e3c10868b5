package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"mcpradar/internal/domain"
)

type sourceTable struct {
	name      string
	hasActive bool
	orderBy   string
}

func tableFor(kind domain.SourceKind) (sourceTable, error) {
	switch kind {
	case domain.KindBlogs:
		// Blogs are scraped most-trusted first.
		return sourceTable{name: "blogs", orderBy: "authority DESC, name ASC"}, nil
	case domain.KindLinkedIn:
		return sourceTable{name: "linkedin_profiles", hasActive: true, orderBy: "name ASC"}, nil
	case domain.KindReddit:
		return sourceTable{name: "reddit_subreddits", hasActive: true, orderBy: "name ASC"}, nil
	}
	return sourceTable{}, fmt.Errorf("unknown source kind %s", kind)
}

// List returns the sources of one kind in scrape order. For kinds with an
// active flag only active sources are returned.
func (s *Store) List(ctx context.Context, kind domain.SourceKind) ([]domain.Source, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	columns := []string{"id", "name", "authority", "source_type", "created_at"}
	if table.name != "reddit_subreddits" {
		columns = append(columns, "address")
	}
	if table.hasActive {
		columns = append(columns, "active")
	}

	builder := sq.Select(columns...).From(table.name).OrderBy(table.orderBy)
	if table.hasActive {
		builder = builder.Where(sq.Eq{"active": true})
	}

	rows, err := s.exec(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	return lo.Map(rows, func(row map[string]any, _ int) domain.Source {
		src := domain.Source{
			ID:        rowString(row, "id"),
			Kind:      kind,
			Name:      rowString(row, "name"),
			Address:   rowString(row, "address"),
			Authority: rowFloat(row, "authority"),
			Type:      domain.SourceType(rowString(row, "source_type")),
			Active:    true,
			CreatedAt: rowTime(row, "created_at"),
		}
		if table.name == "reddit_subreddits" {
			// Subreddits are addressed by their name.
			src.Address = src.Name
		}
		if table.hasActive {
			src.Active = rowBool(row, "active")
		}
		return src
	}), nil
}

// Seed inserts a source, ignoring it if a source of the same name already
// exists.
func (s *Store) Seed(ctx context.Context, src domain.Source) error {
	table, err := tableFor(src.Kind)
	if err != nil {
		return err
	}

	columns := []string{"id", "name", "authority", "source_type"}
	values := []any{src.ID, src.Name, src.Authority, string(src.Type)}
	if table.name != "reddit_subreddits" {
		columns = append(columns, "address")
		values = append(values, src.Address)
	}
	if table.hasActive {
		columns = append(columns, "active")
		values = append(values, src.Active)
	}

	builder := sq.Insert(table.name).
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT (name) DO NOTHING")

	if _, err := s.exec(ctx, builder); err != nil {
		return fmt.Errorf("seed %s %q: %w", src.Kind, src.Name, err)
	}
	return nil
}

// SetAuthority updates a source's trust weight by name.
func (s *Store) SetAuthority(ctx context.Context, kind domain.SourceKind, name string, authority float64) error {
	if authority < 0 || authority > 1 {
		return fmt.Errorf("authority %v outside [0,1]", authority)
	}

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	builder := sq.Update(table.name).
		Set("authority", authority).
		Where(sq.Eq{"name": name})

	if _, err := s.exec(ctx, builder); err != nil {
		return fmt.Errorf("set authority for %s %q: %w", kind, name, err)
	}
	return nil
}
