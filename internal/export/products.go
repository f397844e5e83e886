package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// ProductSheet is the sheet read by the product import.
const ProductSheet = "Products"

// Product import columns, in template order.
const (
	colName = iota
	colSlug
	colCategory
	colSKU
	colSummary
	colDescription
	colFeatures
	colApplications
	colFinish
	colCoverage
	colSizes
	colColors
	colImageURL
	colDatasheetURL
	colFeatured
	colActive
	colDisplayOrder
)

// ListSeparator splits multi-value cells.
const ListSeparator = ";"

// MaxImportRows bounds the data rows accepted in one import.
const MaxImportRows = 2000

var productHeaders = []string{
	"name", "slug", "category_slug", "sku", "summary", "description", "features",
	"applications", "finish", "coverage", "sizes", "colors", "image_url",
	"datasheet_url", "is_featured", "is_active", "display_order",
}

var requiredProductHeaders = []string{"name"}

var (
	// ErrEmptyWorkbook is returned when the import has no header row.
	ErrEmptyWorkbook = errors.New("spreadsheet has no header row")
	// ErrTooManyRows is returned when the import exceeds MaxImportRows.
	ErrTooManyRows = fmt.Errorf("spreadsheet has more than %d data rows", MaxImportRows)
)

// ProductRow is one parsed import row.
type ProductRow struct {
	// Row is the 1-based spreadsheet row, for error reporting.
	Row          int
	CategorySlug string
	Request      *models.ProductCreateRequest
}

// ParseProducts reads the Products sheet (or the first sheet). Rows that
// fail validation are reported in the returned errors and omitted from rows.
// A non-nil error means the file itself could not be read.
func ParseProducts(r io.Reader) ([]ProductRow, []models.ImportError, error) {
	rows, err := openExcelRows(r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyWorkbook
	}
	if len(rows)-1 > MaxImportRows {
		return nil, nil, ErrTooManyRows
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		parsed    []ProductRow
		rowErrors []models.ImportError
		seen      = make(map[string]int)
	)
	for i, cells := range rows[1:] {
		rowNum := i + 2
		if blankRow(cells) {
			continue
		}

		row, rowErr := parseProductRow(rowNum, cells, columns)
		if rowErr == nil {
			slug := models.SlugOrDerive(row.Request.Slug, row.Request.Name)
			if slug == "" {
				rowErr = errors.New("slug could not be derived from the name")
			} else if first, dup := seen[slug]; dup {
				rowErr = fmt.Errorf("duplicate slug %q (first used on row %d)", slug, first)
			} else {
				seen[slug] = rowNum
				row.Request.Slug = &slug
			}
		}
		if rowErr != nil {
			rowErrors = append(rowErrors, models.ImportError{Row: rowNum, Error: rowErr.Error()})
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, rowErrors, nil
}

func openExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := ProductSheet
	if idx, idxErr := f.GetSheetIndex(sheet); idxErr != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// mapColumns maps each known header to its position in the header row.
func mapColumns(header []string) (map[int]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, required := range requiredProductHeaders {
		if _, ok := positions[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	columns := make(map[int]int, len(productHeaders))
	for col, name := range productHeaders {
		if pos, ok := positions[name]; ok {
			columns[col] = pos
		}
	}
	return columns, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseProductRow(rowNum int, cells []string, columns map[int]int) (ProductRow, error) {
	cell := func(col int) string {
		pos, ok := columns[col]
		if !ok || pos >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[pos])
	}

	req := &models.ProductCreateRequest{
		Name:         cell(colName),
		SKU:          cell(colSKU),
		Summary:      cell(colSummary),
		Description:  cell(colDescription),
		Features:     splitList(cell(colFeatures)),
		Applications: splitList(cell(colApplications)),
		Finish:       cell(colFinish),
		Coverage:     cell(colCoverage),
		Sizes:        splitList(cell(colSizes)),
		Colors:       splitList(cell(colColors)),
		ImageURL:     cell(colImageURL),
		DatasheetURL: cell(colDatasheetURL),
	}
	if slug := cell(colSlug); slug != "" {
		req.Slug = &slug
	}

	if req.Name == "" {
		return ProductRow{}, errors.New("name is required")
	}

	var err error
	if req.IsFeatured, err = parseBool("is_featured", cell(colFeatured)); err != nil {
		return ProductRow{}, err
	}
	if req.IsActive, err = parseBool("is_active", cell(colActive)); err != nil {
		return ProductRow{}, err
	}
	if raw := cell(colDisplayOrder); raw != "" {
		order, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return ProductRow{}, fmt.Errorf("display_order must be a whole number, got %q", raw)
		}
		req.DisplayOrder = &order
	}

	if err = req.Validate(); err != nil {
		return ProductRow{}, err
	}

	return ProductRow{
		Row:          rowNum,
		CategorySlug: strings.ToLower(cell(colCategory)),
		Request:      req,
	}, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return models.CleanList(strings.Split(raw, ListSeparator))
}

func parseBool(field, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil // empty cell leaves the default
	}

	var v bool
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y":
		v = true
	case "false", "0", "no", "n":
		v = false
	default:
		return nil, fmt.Errorf("%s must be true/false/yes/no/1/0, got %q", field, raw)
	}
	return &v, nil
}

// WriteProductTemplate writes the import template: a Products sheet with
// headers and an example row, and an Instructions sheet.
func WriteProductTemplate(out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheetWriter(f, ProductSheet, productHeaders)
	if err != nil {
		return err
	}

	if err = w.append([]any{
		"Weather Shield Exterior",
		"weather-shield-exterior",
		"exterior",
		"WS-100",
		"Acrylic exterior emulsion with 10 year protection",
		"<p>Long lasting protection for exterior walls.</p>",
		"Anti-fungal; UV resistant; Low VOC",
		"Masonry; Plaster",
		"Matt",
		"10-12 m²/L",
		"1L; 4L; 20L",
		"White; Ivory",
		"/uploads/2026/01/weather-shield.png",
		"",
		"yes",
		"yes",
		"1",
	}); err != nil {
		return err
	}

	if _, err = f.NewSheet("Instructions"); err != nil {
		return fmt.Errorf("create instructions sheet: %w", err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"name - Required. Product name",
		"slug - Optional. Derived from the name when blank; existing slugs are updated",
		"category_slug - Optional. Slug of an existing product category",
		"features, applications, sizes, colors - Optional. Values separated by ';'",
		"image_url, datasheet_url - Optional. Absolute http(s) URL or site path starting with '/'",
		"is_featured, is_active - Optional. true/false/yes/no/1/0",
		"display_order - Optional. Whole number",
		"",
		"Any invalid row rejects the whole file.",
	}
	for i, line := range instructions {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+1)
		if cellErr != nil {
			return fmt.Errorf("cell name: %w", cellErr)
		}
		if err = f.SetCellValue("Instructions", cell, line); err != nil {
			return fmt.Errorf("write instructions: %w", err)
		}
	}

	return w.finish(out)
}
