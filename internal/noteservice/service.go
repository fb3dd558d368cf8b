// Package noteservice implements the note repository: creating notes,
// listing them, resolving user references and answering tag queries.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/nerdnotes/internal/apperr"
	"github.com/starford/nerdnotes/internal/filename"
	"github.com/starford/nerdnotes/internal/models"
	"github.com/starford/nerdnotes/internal/parser"
	"github.com/starford/nerdnotes/internal/storage"
)

// CreateInput describes a note to create.
type CreateInput struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Validate validates the input.
func (in *CreateInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
	)
}

// Service coordinates note operations on top of a storage provider.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new note service. A nil clock defaults to time.Now.
func NewService(store storage.Provider, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, logger: logger, now: now}
}

// Root returns the notes directory.
func (s *Service) Root() string { return s.store.Root() }

// CreateNote writes a new note from the canonical template and returns its
// path. An existing file is never overwritten.
func (s *Service) CreateNote(_ context.Context, in CreateInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}

	now := s.now()
	name := filename.New(in.Title, now)
	content := parser.RenderNew(in.Title, now, parser.CleanTags(in.Tags))
	if err := s.store.Create(name, content); err != nil {
		return "", err
	}

	path := filepath.Join(s.store.Root(), name)
	s.logger.Debug("note created", slog.String("path", path))
	return path, nil
}

// ListFiles returns the note files in display order. Index is the 1-based
// position used by ResolveReference; it is only valid until the directory
// changes.
func (s *Service) ListFiles(_ context.Context) ([]models.NoteRef, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, err
	}
	refs := make([]models.NoteRef, len(names))
	for i, name := range names {
		refs[i] = models.NoteRef{Index: i + 1, Filename: name}
	}
	return refs, nil
}

// ResolveReference turns a user reference into a path. A reference made only
// of digits is a display index; anything else is a file name or path.
// The result is not checked for existence.
func (s *Service) ResolveReference(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty note reference", apperr.ErrNotFound)
	}

	if isIndex(ref) {
		refs, err := s.ListFiles(ctx)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(ref)
		if err != nil || n < 1 || n > len(refs) {
			return "", fmt.Errorf("%w: %s (valid range 1-%d)", apperr.ErrIndexOutOfRange, ref, len(refs))
		}
		return filepath.Join(s.store.Root(), refs[n-1].Filename), nil
	}

	if filepath.IsAbs(ref) {
		return filepath.Clean(ref), nil
	}
	return filepath.Join(s.store.Root(), ref), nil
}

// ResolveExisting resolves ref and checks that the file exists.
func (s *Service) ResolveExisting(ctx context.Context, ref string) (string, error) {
	path, err := s.ResolveReference(ctx, ref)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// ReadNote reads and parses the note at path.
func (s *Service) ReadNote(path string) (*models.Note, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	note := &models.Note{
		Path:     path,
		Filename: filepath.Base(path),
		Title:    res.Title(),
		Date:     res.Frontmatter.Date,
		Tags:     res.Tags(),
		Body:     res.Body,
	}
	if ts, ok := filename.Timestamp(note.Filename); ok {
		note.Created = ts
	}
	return note, nil
}

// Read returns the raw content of the note at path.
func (s *Service) Read(path string) ([]byte, error) {
	return s.store.Read(path)
}

// Write atomically replaces the content of the note at path.
func (s *Service) Write(path string, data []byte) error {
	return s.store.Write(path, data)
}

// AggregateTags returns the sorted union of tags across all notes. Files that
// cannot be read or parsed are logged and skipped.
func (s *Service) AggregateTags(ctx context.Context) ([]string, error) {
	notes, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.note.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags, nil
}

// FilterByTags returns the notes carrying every tag in required, in display
// order. An empty requirement matches every note.
func (s *Service) FilterByTags(ctx context.Context, required []string) ([]models.NoteRef, error) {
	required = parser.CleanTags(required)
	notes, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.NoteRef
	for _, n := range notes {
		if n.note.HasTags(required) {
			out = append(out, n.ref)
		}
	}
	return out, nil
}

type scanned struct {
	ref  models.NoteRef
	note *models.Note
}

func (s *Service) scan(ctx context.Context) ([]scanned, error) {
	refs, err := s.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]scanned, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		note, err := s.ReadNote(filepath.Join(s.store.Root(), ref.Filename))
		if err != nil {
			s.logger.Warn("skipping note", slog.String("file", ref.Filename), slog.String("error", err.Error()))
			continue
		}
		out = append(out, scanned{ref: ref, note: note})
	}
	return out, nil
}

func isIndex(ref string) bool {
	for _, r := range ref {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
