package editor

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ghostplan/matrix/internal/domain/models"
	"github.com/ghostplan/matrix/internal/service/matrix"
)

// State is the lifecycle phase of an edit session.
type State string

const (
	// StateEditing means the session owns a live draft.
	StateEditing State = "editing"
	// StateViewing is the terminal state: the draft has been discarded,
	// either after a cancel or a fully successful save.
	StateViewing State = "viewing"
)

var (
	// ErrNotEditing is returned when a mutation arrives after the session
	// left the editing state.
	ErrNotEditing = errors.New("session is not editing")
	// ErrCellOutOfRange reports an item index outside the draft.
	ErrCellOutOfRange = errors.New("cell out of range")
	// ErrUnknownMonth reports a month key outside the fiscal window.
	ErrUnknownMonth = errors.New("month key not in fiscal window")
)

var (
	rowSplitter = regexp.MustCompile(`\r\n|\n|\r`)
	nonNumeric  = regexp.MustCompile(`[^0-9-]`)
)

// Session owns a mutable draft copy of a job's item list for the duration
// of one editing round. The draft is invisible to every other component:
// reads go through Draft(), which hands out deep copies, and the
// server-sourced item list is never touched until save.
type Session struct {
	ID        string
	ProjectID string
	JobID     string

	mu          sync.Mutex
	state       State
	months      []models.MonthColumn
	draft       []models.Item
	startedAt   time.Time
	lastTouched time.Time
}

// NewSession snapshots a structural deep copy of items as the draft and
// enters the editing state. Callers pass the display-sorted list so draft
// indices line up with rendered rows.
func NewSession(id, projectID, jobID string, items []models.Item, months []models.MonthColumn) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		ProjectID:   projectID,
		JobID:       jobID,
		state:       StateEditing,
		months:      months,
		draft:       models.CloneItems(items),
		startedAt:   now,
		lastTouched: now,
	}
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Months returns the fiscal window the session was opened with.
func (s *Session) Months() []models.MonthColumn {
	return s.months
}

// Draft returns a deep copy of the current draft items. The copy keeps the
// session's ownership of the draft intact.
func (s *Session) Draft() ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, ErrNotEditing
	}
	return models.CloneItems(s.draft), nil
}

// SetCell applies one cell edit to the draft. The raw text is parsed as an
// integer; an empty string means amount 0. Non-numeric non-empty input is
// rejected as a silent no-op, matching local input validation in the grid.
func (s *Session) SetCell(itemIndex int, monthKey, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if itemIndex < 0 || itemIndex >= len(s.draft) {
		return ErrCellOutOfRange
	}
	if matrix.MonthIndex(s.months, monthKey) < 0 {
		return ErrUnknownMonth
	}

	amount := int64(0)
	if raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		amount = parsed
	}

	s.touch()
	upsertEntry(&s.draft[itemIndex], monthKey, amount)
	return nil
}

// Paste fills a rectangular block of cells from clipboard text anchored at
// (itemIndex, monthIndex). Rows split on any newline variant, columns on
// tabs. Targets beyond the last row or column are silently skipped, as are
// cells that are not numeric after stripping everything but digits and the
// minus sign. Pasting a 3x3 block with the anchor on the last row applies
// only the in-range subset.
func (s *Session) Paste(itemIndex, monthIndex int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if itemIndex < 0 || itemIndex >= len(s.draft) {
		return ErrCellOutOfRange
	}
	if monthIndex < 0 || monthIndex >= len(s.months) {
		return ErrUnknownMonth
	}

	s.touch()

	rowOffset := 0
	for _, row := range rowSplitter.Split(text, -1) {
		if row == "" {
			continue
		}
		targetItem := itemIndex + rowOffset
		rowOffset++
		if targetItem >= len(s.draft) {
			continue
		}

		for c, cell := range strings.Split(row, "\t") {
			targetMonth := monthIndex + c
			if targetMonth >= len(s.months) {
				break
			}

			clean := nonNumeric.ReplaceAllString(cell, "")
			amount, err := strconv.ParseInt(clean, 10, 64)
			if err != nil {
				continue
			}
			upsertEntry(&s.draft[targetItem], s.months[targetMonth].Key, amount)
		}
	}

	return nil
}

// Cancel discards the draft and returns to viewing. No network calls are
// made; repeated cancels are harmless.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// finish closes the session after a fully successful save.
func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

func (s *Session) close() {
	s.state = StateViewing
	s.draft = nil
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastTouched) > ttl
}

func (s *Session) touch() {
	s.lastTouched = time.Now()
}

// upsertEntry keeps the one-entry-per-(item, month) invariant: an existing
// entry is updated in place, otherwise a new one is appended.
func upsertEntry(item *models.Item, monthKey string, amount int64) {
	for i := range item.Entries {
		if item.Entries[i].Date == monthKey {
			item.Entries[i].Amount = amount
			return
		}
	}
	item.Entries = append(item.Entries, models.Entry{
		ItemID: item.ID,
		Date:   monthKey,
		Amount: amount,
	})
}
