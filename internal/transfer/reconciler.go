// Package transfer implements CSV import and export of bookmarks and tags.
//
// Import is a row-by-row reconciliation: each parsed row is first decided
// into an action (create, update, skip, or row error) and the action is then
// applied, so preview mode runs the exact same decision path with the apply
// step reduced to a no-op. A single bad row never aborts the batch; failures
// are collected per line in the result.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/bookmarks/internal/entities"
)

// Mode controls what happens when an imported row matches an existing entity.
type Mode string

const (
	ModeSkip      Mode = "skip"
	ModeUpdate    Mode = "update"
	ModeDuplicate Mode = "duplicate" // bookmarks only
)

var (
	ErrInvalidMode = errors.New("invalid import mode")
	ErrEmptyCSV    = errors.New("csv data is required")
)

// sentinelTagID marks a tag that would be created in preview mode.
// It is never persisted.
const sentinelTagID = uint(0)

// Store is the persistence collaborator for import and export. Lookups
// return (nil, nil) when no matching record exists.
type Store interface {
	FindBookmarkByPath(userID uint, path string) (*entities.Bookmark, error)
	FindTagByName(userID uint, name string) (*entities.Tag, error)
	CreateTag(userID uint, name string, isFavorite bool) (*entities.Tag, error)
	CreateBookmark(bookmark *entities.Bookmark, tagIDs []uint) error
	UpdateBookmark(bookmarkID uint, title, description string, isFavorite bool) error
	ReplaceBookmarkTags(bookmarkID uint, tagIDs []uint) error
	UpdateTagFavorite(tagID uint, isFavorite bool) error
	ListBookmarks(userID uint) ([]entities.Bookmark, error)
	ListTags(userID uint) ([]entities.Tag, error)
}

// Options configures a single import call.
type Options struct {
	Preview bool
	Mode    Mode
}

// RowPreview describes one row's planned outcome.
type RowPreview struct {
	Path   string   `json:"path"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// Preview breaks down the planned outcome per row. It is populated
// identically whether or not the call commits writes.
type Preview struct {
	ToImport []RowPreview `json:"to_import"`
	ToUpdate []RowPreview `json:"to_update"`
	ToSkip   []RowPreview `json:"to_skip"`
}

// Result summarizes an import call.
type Result struct {
	Imported    int      `json:"imported"`
	Updated     int      `json:"updated"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors"`
	TagsCreated []string `json:"tags_created"`
	Preview     Preview  `json:"preview"`
}

func newResult() *Result {
	return &Result{
		Errors:      []string{},
		TagsCreated: []string{},
		Preview: Preview{
			ToImport: []RowPreview{},
			ToUpdate: []RowPreview{},
			ToSkip:   []RowPreview{},
		},
	}
}

// tagRegistry accumulates tag names minted during one import call,
// deduplicated in first-occurrence order.
type tagRegistry struct {
	names []string
	seen  map[string]bool
}

func newTagRegistry() *tagRegistry {
	return &tagRegistry{seen: make(map[string]bool)}
}

func (r *tagRegistry) add(name string) {
	if r.seen[name] {
		return
	}
	r.seen[name] = true
	r.names = append(r.names, name)
}

// Service reconciles CSV imports against the store and builds CSV exports.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// bookmarkAction is the decided outcome for one bookmark row.
type bookmarkAction struct {
	kind     actionKind
	row      map[string]string
	tagNames []string
	existing *entities.Bookmark
	errMsg   string
}

type actionKind int

const (
	actionRowError actionKind = iota
	actionSkip
	actionUpdate
	actionCreate
)

// ImportBookmarks reconciles a bookmarks CSV payload. Rows are processed
// strictly in order so that later rows resolve tags created by earlier ones.
func (s *Service) ImportBookmarks(userID uint, csvText string, opts Options) (*Result, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, ErrEmptyCSV
	}
	if err := validateMode(opts.Mode, true); err != nil {
		return nil, err
	}

	rows := parseCSV(csvText)
	result := newResult()
	registry := newTagRegistry()

	for i, row := range rows {
		lineNum := i + 2 // header occupies line 1

		act := s.decideBookmarkRow(userID, row, opts.Mode)
		if err := s.applyBookmarkAction(userID, act, opts.Preview, registry); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			continue
		}
		recordBookmarkAction(result, act, lineNum)
	}

	result.TagsCreated = append(result.TagsCreated, registry.names...)
	return result, nil
}

// decideBookmarkRow determines what should happen to one row without
// performing any writes.
func (s *Service) decideBookmarkRow(userID uint, row map[string]string, mode Mode) bookmarkAction {
	if row["path"] == "" || row["title"] == "" {
		return bookmarkAction{kind: actionRowError, row: row, errMsg: "path and title are required"}
	}

	existing, err := s.store.FindBookmarkByPath(userID, row["path"])
	if err != nil {
		return bookmarkAction{kind: actionRowError, row: row, errMsg: err.Error()}
	}

	tagNames := splitTagNames(row["tags"])

	if existing != nil && mode != ModeDuplicate {
		if mode == ModeSkip {
			return bookmarkAction{kind: actionSkip, row: row, existing: existing}
		}
		return bookmarkAction{kind: actionUpdate, row: row, tagNames: tagNames, existing: existing}
	}

	return bookmarkAction{kind: actionCreate, row: row, tagNames: tagNames}
}

// applyBookmarkAction performs the decided action's writes. Under preview
// nothing is persisted; tag resolution still runs so that would-be creations
// land in the registry.
func (s *Service) applyBookmarkAction(userID uint, act bookmarkAction, preview bool, registry *tagRegistry) error {
	switch act.kind {
	case actionRowError, actionSkip:
		return nil

	case actionUpdate:
		if preview {
			return nil
		}
		tagIDs, err := s.resolveTags(userID, act.tagNames, registry, false)
		if err != nil {
			return err
		}
		if err := s.store.ReplaceBookmarkTags(act.existing.ID, tagIDs); err != nil {
			return err
		}
		return s.store.UpdateBookmark(act.existing.ID, act.row["title"], act.row["description"], act.row["isFavorite"] == "true")

	case actionCreate:
		tagIDs, err := s.resolveTags(userID, act.tagNames, registry, preview)
		if err != nil {
			return err
		}
		if preview {
			return nil
		}

		bookmark := &entities.Bookmark{
			UserID:      userID,
			Path:        act.row["path"],
			Title:       act.row["title"],
			Description: act.row["description"],
			IsFavorite:  act.row["isFavorite"] == "true",
		}
		if act.row["createdAt"] != "" {
			if t, err := parseTimestamp(act.row["createdAt"]); err == nil {
				bookmark.CreatedAt = t
			}
		}
		return s.store.CreateBookmark(bookmark, realTagIDs(tagIDs))
	}
	return nil
}

// recordBookmarkAction updates counts and the preview breakdown. It runs the
// same way for preview and committing calls.
func recordBookmarkAction(result *Result, act bookmarkAction, lineNum int) {
	switch act.kind {
	case actionRowError:
		result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s", lineNum, act.errMsg))
	case actionSkip:
		result.Skipped++
		result.Preview.ToSkip = append(result.Preview.ToSkip, RowPreview{
			Path:   act.row["path"],
			Title:  act.row["title"],
			Reason: "already exists",
		})
	case actionUpdate:
		result.Updated++
		result.Preview.ToUpdate = append(result.Preview.ToUpdate, RowPreview{
			Path:  act.row["path"],
			Title: act.row["title"],
		})
	case actionCreate:
		result.Imported++
		result.Preview.ToImport = append(result.Preview.ToImport, RowPreview{
			Path:  act.row["path"],
			Title: act.row["title"],
			Tags:  act.tagNames,
		})
	}
}

// ImportTags reconciles a tags CSV payload. Same shape as bookmarks,
// simplified: the only required field is name and updates touch only the
// favorite flag. Mode duplicate is not valid for tags.
func (s *Service) ImportTags(userID uint, csvText string, opts Options) (*Result, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, ErrEmptyCSV
	}
	if err := validateMode(opts.Mode, false); err != nil {
		return nil, err
	}

	rows := parseCSV(csvText)
	result := newResult()

	for i, row := range rows {
		lineNum := i + 2

		if row["name"] == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: name is required", lineNum))
			continue
		}
		if err := s.reconcileTagRow(userID, row, opts, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
		}
	}

	return result, nil
}

func (s *Service) reconcileTagRow(userID uint, row map[string]string, opts Options, result *Result) error {
	existing, err := s.store.FindTagByName(userID, row["name"])
	if err != nil {
		return err
	}

	isFavorite := row["isFavorite"] == "true"

	if existing != nil {
		if opts.Mode == ModeSkip {
			result.Skipped++
			result.Preview.ToSkip = append(result.Preview.ToSkip, RowPreview{
				Title:  row["name"],
				Reason: "already exists",
			})
			return nil
		}
		// mode update
		if !opts.Preview {
			if err := s.store.UpdateTagFavorite(existing.ID, isFavorite); err != nil {
				return err
			}
		}
		result.Updated++
		result.Preview.ToUpdate = append(result.Preview.ToUpdate, RowPreview{Title: row["name"]})
		return nil
	}

	if !opts.Preview {
		if _, err := s.store.CreateTag(userID, row["name"], isFavorite); err != nil {
			return err
		}
	}
	result.Imported++
	result.Preview.ToImport = append(result.Preview.ToImport, RowPreview{Title: row["name"]})
	return nil
}

// resolveTags maps tag names to ids via get-or-create. In preview mode a
// missing tag is recorded in the registry and resolved to the sentinel id.
func (s *Service) resolveTags(userID uint, names []string, registry *tagRegistry, preview bool) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, err := s.getOrCreateTag(userID, name, registry, preview)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) getOrCreateTag(userID uint, name string, registry *tagRegistry, preview bool) (uint, error) {
	existing, err := s.store.FindTagByName(userID, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	if preview {
		registry.add(name)
		return sentinelTagID, nil
	}

	tag, err := s.store.CreateTag(userID, name, false)
	if err != nil {
		return 0, err
	}
	registry.add(name)
	return tag.ID, nil
}

// realTagIDs drops sentinel ids so they are never persisted.
func realTagIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != sentinelTagID {
			out = append(out, id)
		}
	}
	return out
}

func splitTagNames(field string) []string {
	if field == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(field, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func validateMode(mode Mode, allowDuplicate bool) error {
	switch mode {
	case ModeSkip, ModeUpdate:
		return nil
	case ModeDuplicate:
		if allowDuplicate {
			return nil
		}
		return fmt.Errorf("%w: duplicate is not supported for tags", ErrInvalidMode)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// parseTimestamp tries the formats historical exports have used.
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
