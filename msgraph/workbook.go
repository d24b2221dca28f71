package msgraph

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

type Worksheet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Table struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TableData is one worksheet table read in full: column headers plus rows
// of raw cell values (string, float64, or an Excel date serial as float64).
type TableData struct {
	WorksheetName string
	TableID       string
	TableName     string
	Headers       []string
	Rows          [][]interface{}
}

func (c *Client) ListWorksheets(ctx context.Context) ([]Worksheet, error) {
	var out struct {
		Value []Worksheet `json:"value"`
	}
	if err := c.getJSON(ctx, c.workbookPath()+"/worksheets", &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

func (c *Client) ListTables(ctx context.Context, worksheetID string) ([]Table, error) {
	var out struct {
		Value []Table `json:"value"`
	}
	path := fmt.Sprintf("%s/worksheets/%s/tables", c.workbookPath(), url.PathEscape(worksheetID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

func (c *Client) TableRows(ctx context.Context, tableID string) ([][]interface{}, error) {
	var out struct {
		Value []struct {
			Index  int             `json:"index"`
			Values [][]interface{} `json:"values"`
		} `json:"value"`
	}
	path := fmt.Sprintf("%s/tables/%s/rows", c.workbookPath(), url.PathEscape(tableID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(out.Value))
	for _, r := range out.Value {
		if len(r.Values) > 0 {
			rows = append(rows, r.Values[0])
		}
	}
	return rows, nil
}

func (c *Client) TableColumns(ctx context.Context, tableID string) ([]string, error) {
	var out struct {
		Value []struct {
			Name string `json:"name"`
		} `json:"value"`
	}
	path := fmt.Sprintf("%s/tables/%s/columns", c.workbookPath(), url.PathEscape(tableID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(out.Value))
	for _, col := range out.Value {
		headers = append(headers, col.Name)
	}
	return headers, nil
}

// ReadWorksheetTable resolves the named worksheet, takes its first data
// table, and reads all columns and rows. Taking the first table is a hard
// assumption carried from the spreadsheet layout; a worksheet with more
// than one table gets a warning naming the table that was read.
//
// Rows and columns are fetched without following pagination: the workbook
// tables in scope fit in a single response. Folder listings (drive.go) do
// paginate.
func (c *Client) ReadWorksheetTable(ctx context.Context, worksheetName string) (*TableData, error) {
	sheets, err := c.ListWorksheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}

	var sheet *Worksheet
	available := make([]string, 0, len(sheets))
	for i := range sheets {
		available = append(available, sheets[i].Name)
		if sheets[i].Name == worksheetName {
			sheet = &sheets[i]
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("worksheet %q not found (available: %s)", worksheetName, strings.Join(available, ", "))
	}

	tables, err := c.ListTables(ctx, sheet.ID)
	if err != nil {
		return nil, fmt.Errorf("listing tables in worksheet %q: %w", worksheetName, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("worksheet %q has no tables", worksheetName)
	}
	if len(tables) > 1 {
		c.logger.WithFields(logrus.Fields{
			"module":    "msgraph",
			"worksheet": worksheetName,
			"table":     tables[0].Name,
			"tables":    len(tables),
		}).Warn("worksheet has multiple tables, reading the first")
	}
	table := tables[0]

	headers, err := c.TableColumns(ctx, table.ID)
	if err != nil {
		return nil, fmt.Errorf("reading columns of table %q: %w", table.Name, err)
	}
	rows, err := c.TableRows(ctx, table.ID)
	if err != nil {
		return nil, fmt.Errorf("reading rows of table %q: %w", table.Name, err)
	}

	return &TableData{
		WorksheetName: worksheetName,
		TableID:       table.ID,
		TableName:     table.Name,
		Headers:       headers,
		Rows:          rows,
	}, nil
}

// DeleteTableRow removes one row by its zero-based index. Callers deleting
// multiple rows must delete bottom-up: the API re-indexes remaining rows
// after each delete. For the same reason the call is never retried; the
// caller replans from fresh indices after any failure.
func (c *Client) DeleteTableRow(ctx context.Context, tableID string, index int) error {
	path := fmt.Sprintf("%s/tables/%s/rows/itemAt(index=%d)", c.workbookPath(), url.PathEscape(tableID), index)
	return c.deleteOnce(ctx, path)
}
