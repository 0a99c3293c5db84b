package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/models"
	"github.com/Lobco894/NotePad-new-master/internal/parser"
)

// Import creates a note from the document at path. The title comes from
// frontmatter or the first heading and is otherwise derived from the body.
// A frontmatter category is created when it does not exist yet.
func (s *Service) Import(ctx context.Context, path string) (*models.Note, error) {
	docs, err := s.documents()
	if err != nil {
		return nil, err
	}
	data, err := docs.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("document %s: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	doc, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	in := NoteInput{Body: &doc.Body}
	if doc.Title != "" {
		in.Title = &doc.Title
	}
	if doc.Category != "" {
		if err := s.ensureCategory(ctx, doc.Category); err != nil {
			return nil, err
		}
		in.Category = &doc.Category
	}
	return s.CreateNote(ctx, in)
}

// ImportAll imports every document under dir. Documents that fail are
// logged and skipped; the notes created are returned.
func (s *Service) ImportAll(ctx context.Context, dir string) ([]models.Note, error) {
	docs, err := s.documents()
	if err != nil {
		return nil, err
	}
	list, err := docs.List(dir)
	if err != nil {
		return nil, err
	}
	var out []models.Note
	for _, d := range list {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		n, err := s.Import(ctx, d.Path)
		if err != nil {
			slog.Warn("import: skipping document", slog.String("path", d.Path), slog.String("error", err.Error()))
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

// Documents lists importable files under dir.
func (s *Service) Documents(dir string) ([]models.Document, error) {
	docs, err := s.documents()
	if err != nil {
		return nil, err
	}
	return docs.List(dir)
}

func (s *Service) ensureCategory(ctx context.Context, name string) error {
	if _, err := s.CategoryByName(ctx, name); err == nil {
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if _, err := s.CreateCategory(ctx, name, ""); err != nil && !errors.Is(err, apperr.ErrAlreadyExists) {
		return err
	}
	return nil
}
