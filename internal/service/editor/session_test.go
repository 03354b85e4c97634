package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostplan/matrix/internal/domain/models"
	"github.com/ghostplan/matrix/internal/service/matrix"
)

func testMonths(t *testing.T) []models.MonthColumn {
	t.Helper()
	months, err := matrix.GenerateMonthColumns("2026-04-01")
	require.NoError(t, err)
	return months
}

func testItems() []models.Item {
	return []models.Item{
		{ID: "i1", ItemTypeID: "t1", Name: "受注A", Entries: []models.Entry{
			{ItemID: "i1", Date: "2026-04-01", Amount: 100},
		}},
		{ID: "i2", ItemTypeID: "t2", Name: "外注B", Entries: []models.Entry{}},
		{ID: "i3", ItemTypeID: "t3", Name: "人件費C", Entries: []models.Entry{}},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("sid", "p1", "j1", testItems(), testMonths(t))
}

func draftItem(t *testing.T, sess *Session, idx int) models.Item {
	t.Helper()
	draft, err := sess.Draft()
	require.NoError(t, err)
	require.Greater(t, len(draft), idx)
	return draft[idx]
}

func TestSession_SnapshotIsolatesSource(t *testing.T) {
	items := testItems()
	sess := NewSession("sid", "p1", "j1", items, testMonths(t))

	require.NoError(t, sess.SetCell(0, "2026-04-01", "999"))

	// The source list the session was opened with is untouched.
	assert.Equal(t, int64(100), items[0].Entries[0].Amount)
	assert.Equal(t, int64(999), draftItem(t, sess, 0).AmountOn("2026-04-01"))
}

func TestSession_SetCell_UpdatesExistingEntry(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.SetCell(0, "2026-04-01", "250"))

	it := draftItem(t, sess, 0)
	require.Len(t, it.Entries, 1, "no duplicate entry for the same month")
	assert.Equal(t, int64(250), it.Entries[0].Amount)
}

func TestSession_SetCell_AppendsNewEntry(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.SetCell(1, "2026-06-01", "42"))

	it := draftItem(t, sess, 1)
	require.Len(t, it.Entries, 1)
	assert.Equal(t, "i2", it.Entries[0].ItemID)
	assert.Equal(t, "2026-06-01", it.Entries[0].Date)
	assert.Equal(t, int64(42), it.Entries[0].Amount)
}

func TestSession_SetCell_EmptyMeansZero(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.SetCell(0, "2026-04-01", ""))

	it := draftItem(t, sess, 0)
	require.Len(t, it.Entries, 1, "clearing keeps the entry, amount 0")
	assert.Equal(t, int64(0), it.Entries[0].Amount)
}

func TestSession_SetCell_NonNumericIsNoOp(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.SetCell(0, "2026-04-01", "abc"))
	require.NoError(t, sess.SetCell(0, "2026-04-01", "12.5"))

	assert.Equal(t, int64(100), draftItem(t, sess, 0).AmountOn("2026-04-01"))
}

func TestSession_SetCell_NegativeAmount(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.SetCell(0, "2026-04-01", "-4000"))
	assert.Equal(t, int64(-4000), draftItem(t, sess, 0).AmountOn("2026-04-01"))
}

func TestSession_SetCell_Bounds(t *testing.T) {
	sess := newTestSession(t)

	assert.ErrorIs(t, sess.SetCell(99, "2026-04-01", "1"), ErrCellOutOfRange)
	assert.ErrorIs(t, sess.SetCell(-1, "2026-04-01", "1"), ErrCellOutOfRange)
	assert.ErrorIs(t, sess.SetCell(0, "2027-04-01", "1"), ErrUnknownMonth)
}

func TestSession_Paste_RectangularBlock(t *testing.T) {
	sess := newTestSession(t)

	// Two rows by three columns, anchored at the first item / first month.
	require.NoError(t, sess.Paste(0, 0, "100\t200\t300\n400\t500\t600"))

	first := draftItem(t, sess, 0)
	assert.Equal(t, int64(100), first.AmountOn("2026-04-01"))
	assert.Equal(t, int64(200), first.AmountOn("2026-05-01"))
	assert.Equal(t, int64(300), first.AmountOn("2026-06-01"))

	second := draftItem(t, sess, 1)
	assert.Equal(t, int64(400), second.AmountOn("2026-04-01"))
	assert.Equal(t, int64(500), second.AmountOn("2026-05-01"))
	assert.Equal(t, int64(600), second.AmountOn("2026-06-01"))
}

func TestSession_Paste_OverflowSilentlySkipped(t *testing.T) {
	sess := newTestSession(t)

	// Anchor on the last item and last month: only the top-left cell of a
	// 3x3 block is in range.
	require.NoError(t, sess.Paste(2, 11, "1\t2\t3\n4\t5\t6\n7\t8\t9"))

	last := draftItem(t, sess, 2)
	require.Len(t, last.Entries, 1)
	assert.Equal(t, int64(1), last.AmountOn("2027-03-01"))
}

func TestSession_Paste_SanitizesSpreadsheetFormatting(t *testing.T) {
	sess := newTestSession(t)

	// Currency symbols and separators pasted from a spreadsheet are
	// stripped before parsing.
	require.NoError(t, sess.Paste(0, 0, "¥1,200\t\t(skip)\t-3,000"))

	it := draftItem(t, sess, 0)
	assert.Equal(t, int64(1200), it.AmountOn("2026-04-01"))
	assert.Equal(t, int64(0), it.AmountOn("2026-05-01"), "blank cell skipped")
	assert.Equal(t, int64(0), it.AmountOn("2026-06-01"), "non-numeric cell skipped")
	assert.Equal(t, int64(-3000), it.AmountOn("2026-07-01"))
}

func TestSession_Paste_CarriageReturnVariants(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.Paste(0, 0, "10\r\n20\r30\n"))

	assert.Equal(t, int64(10), draftItem(t, sess, 0).AmountOn("2026-04-01"))
	assert.Equal(t, int64(20), draftItem(t, sess, 1).AmountOn("2026-04-01"))
	assert.Equal(t, int64(30), draftItem(t, sess, 2).AmountOn("2026-04-01"))
}

func TestSession_Paste_KeepsSingleEntryPerMonth(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.Paste(0, 0, "111"))
	require.NoError(t, sess.Paste(0, 0, "222"))

	it := draftItem(t, sess, 0)
	require.Len(t, it.Entries, 1)
	assert.Equal(t, int64(222), it.Entries[0].Amount)
}

func TestSession_CancelDiscardsDraft(t *testing.T) {
	sess := newTestSession(t)
	require.NoError(t, sess.SetCell(0, "2026-04-01", "777"))

	sess.Cancel()

	assert.Equal(t, StateViewing, sess.State())
	_, err := sess.Draft()
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.ErrorIs(t, sess.SetCell(0, "2026-04-01", "1"), ErrNotEditing)
	assert.ErrorIs(t, sess.Paste(0, 0, "1"), ErrNotEditing)
}
