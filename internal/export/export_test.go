package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Hayal27/sininning-pro-sub000/internal/export"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func createWorkbook(t *testing.T, sheet string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestWriteContacts(t *testing.T) {
	t.Parallel()

	assignee := "Abebe K."
	resolved := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	contacts := []*models.ContactSubmission{
		{
			ID:           uuid.New(),
			Name:         "Sara",
			Email:        "sara@paints.test",
			Subject:      "Bulk order",
			Message:      "Need 200L of primer",
			InquiryType:  models.InquiryQuote,
			Status:       models.ContactStatusResolved,
			Priority:     models.PriorityHigh,
			AssigneeName: &assignee,
			ResolvedAt:   &resolved,
			CreatedAt:    time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteContacts(&buf, contacts))

	rows := readSheet(t, buf.Bytes(), "Contacts")
	require.Len(t, rows, 2)
	assert.Equal(t, "submitted_at", rows[0][0])
	assert.Equal(t, "2026-03-01 08:00:00", rows[1][0])
	assert.Equal(t, "sara@paints.test", rows[1][2])
	assert.Equal(t, "quote", rows[1][7])
	assert.Equal(t, "resolved", rows[1][8])
	assert.Equal(t, "Abebe K.", rows[1][10])
	assert.Equal(t, "2026-03-02 09:30:00", rows[1][12])
}

func TestWriteSubscribers(t *testing.T) {
	t.Parallel()

	unsubscribed := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	subs := []*models.Subscription{
		{Email: "a@paints.test", Status: models.SubscriptionActive, Source: "website"},
		{Email: "b@paints.test", Status: models.SubscriptionUnsubscribed, UnsubscribedAt: &unsubscribed},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteSubscribers(&buf, subs, func(email string) string {
		return "https://paints.test/unsubscribe?email=" + email
	}))

	rows := readSheet(t, buf.Bytes(), "Subscribers")
	require.Len(t, rows, 3)
	assert.Equal(t, "https://paints.test/unsubscribe?email=a@paints.test", rows[1][6])
	assert.Equal(t, "2026-02-01 00:00:00", rows[2][5])
	if len(rows[2]) > 6 {
		assert.Empty(t, rows[2][6], "inactive rows have no unsubscribe link")
	}
}

func TestProductTemplateRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteProductTemplate(&buf))

	rows, rowErrors, err := export.ParseProducts(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2, row.Row)
	assert.Equal(t, "exterior", row.CategorySlug)
	assert.Equal(t, "weather-shield-exterior", *row.Request.Slug)
	assert.Equal(t, []string{"Anti-fungal", "UV resistant", "Low VOC"}, row.Request.Features)
	assert.Equal(t, []string{"1L", "4L", "20L"}, row.Request.Sizes)
	require.NotNil(t, row.Request.IsFeatured)
	assert.True(t, *row.Request.IsFeatured)
	require.NotNil(t, row.Request.DisplayOrder)
	assert.Equal(t, 1, *row.Request.DisplayOrder)

	instructions := readSheet(t, buf.Bytes(), "Instructions")
	assert.Equal(t, "Column Descriptions:", instructions[0][0])
}

func TestParseProducts_RowErrors(t *testing.T) {
	t.Parallel()

	reader := createWorkbook(t, "Products", [][]string{
		{"Name", "Slug", "is_active", "display_order", "image_url"},
		{"Primer", "", "yes", "2", ""},
		{"", "orphan", "", "", ""},
		{"Sealer", "", "maybe", "", ""},
		{"", "", "", "", ""},
		{"Primer Plus", "primer", "", "", ""},
		{"Gloss", "", "", "first", ""},
		{"Satin", "", "", "", "javascript:alert(1)"},
	})

	rows, rowErrors, err := export.ParseProducts(reader)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "primer", *rows[0].Request.Slug)

	got := map[int]string{}
	for _, e := range rowErrors {
		got[e.Row] = e.Error
	}
	assert.Len(t, got, 5)
	assert.Equal(t, "name is required", got[3])
	assert.Contains(t, got[4], "is_active")
	assert.Contains(t, got[6], `duplicate slug "primer"`)
	assert.Contains(t, got[7], "display_order")
	assert.Contains(t, got[8], "image_url")
}

func TestParseProducts_FallsBackToFirstSheet(t *testing.T) {
	t.Parallel()

	reader := createWorkbook(t, "Sheet1", [][]string{
		{"name"},
		{"Undercoat"},
	})

	rows, rowErrors, err := export.ParseProducts(reader)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, "undercoat", *rows[0].Request.Slug)
}

func TestParseProducts_FileErrors(t *testing.T) {
	t.Parallel()

	_, _, err := export.ParseProducts(bytes.NewReader([]byte("not a spreadsheet")))
	require.Error(t, err)

	_, _, err = export.ParseProducts(createWorkbook(t, "Products", [][]string{{"sku"}, {"X"}}))
	require.ErrorContains(t, err, "missing required columns: name")

	_, _, err = export.ParseProducts(createWorkbook(t, "Products", nil))
	require.ErrorIs(t, err, export.ErrEmptyWorkbook)
}
