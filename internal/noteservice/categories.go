package noteservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/models"
	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// ListCategories returns categories ordered by name. A non-empty nameFilter
// is a case-insensitive glob ("w*", "?ome"); a filter without wildcards
// matches names containing it.
func (s *Service) ListCategories(ctx context.Context, nameFilter string) ([]models.Category, error) {
	match, err := compileFilter(nameFilter)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Query(ctx, s.Resolver().Categories(), provider.Query{})
	if err != nil {
		return nil, err
	}
	rows, err := c.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		if match != nil && !match.Match(strings.ToLower(r.Text(schema.CategoryName))) {
			continue
		}
		out = append(out, s.category(r))
	}
	return out, nil
}

func compileFilter(filter string) (glob.Glob, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return nil, nil
	}
	if !strings.ContainsAny(filter, `*?[{\`) {
		filter = "*" + filter + "*"
	}
	g, err := glob.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("category filter %q: %v: %w", filter, err, apperr.ErrInvalidArgument)
	}
	return g, nil
}

func (s *Service) category(r provider.Row) models.Category {
	addr, _ := s.Resolver().Category(r.Int64(schema.ID))
	return models.CategoryFromRow(r, addr.String())
}

// GetCategory returns the category with id.
func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	addr, err := s.Resolver().Category(id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	c, err := s.store.Query(ctx, addr, provider.Query{})
	if err != nil {
		return nil, err
	}
	row, ok, err := c.First()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	cat := models.CategoryFromRow(row, addr.String())
	return &cat, nil
}

// CategoryByName returns the category called name.
func (s *Service) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := s.store.Query(ctx, s.Resolver().Categories(), provider.Query{Where: provider.Eq(schema.CategoryName, name)})
	if err != nil {
		return nil, err
	}
	row, ok, err := c.First()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("category %q: %w", name, apperr.ErrNotFound)
	}
	cat := s.category(row)
	return &cat, nil
}

// CreateCategory adds a category. The name is trimmed; an empty color takes
// the store default. A taken name fails with ErrAlreadyExists.
func (s *Service) CreateCategory(ctx context.Context, name, color string) (*models.Category, error) {
	v := provider.Values{schema.CategoryName: strings.TrimSpace(name)}
	if color != "" {
		v[schema.CategoryColor] = color
	}
	item, err := s.store.Insert(ctx, s.Resolver().Categories(), v)
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, item.ID)
}

// UpdateCategory renames and/or recolors category id. Empty arguments are
// left unchanged. Notes in a renamed category follow it.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name, color string) (*models.Category, error) {
	addr, err := s.Resolver().Category(id)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	v := provider.Values{}
	if name = strings.TrimSpace(name); name != "" {
		v[schema.CategoryName] = name
	}
	if color != "" {
		v[schema.CategoryColor] = color
	}
	if len(v) == 0 {
		return s.GetCategory(ctx, id)
	}
	if _, err := s.store.Update(ctx, addr, v, provider.Predicate{}); err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes category id and clears it from its notes.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	addr, err := s.Resolver().Category(id)
	if err != nil {
		return fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	n, err := s.store.Delete(ctx, addr, provider.Predicate{})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
