package migration

import (
	"context"
	"fmt"

	"bitbucket.org/invoicedesk/postal_backend/msgraph"
	"github.com/xuri/excelize/v2"
)

// RowSource abstracts where the invoice rows come from: the remote
// workbook table over the Graph API, or a local .xlsx copy of the same
// worksheet (--file mode, used when working offline or replaying a
// downloaded export).
type RowSource interface {
	ReadRows(ctx context.Context) (headers []string, rows [][]interface{}, err error)
	Name() string
}

type graphSource struct {
	client        *msgraph.Client
	worksheetName string
}

func NewGraphSource(client *msgraph.Client, worksheetName string) RowSource {
	return &graphSource{client: client, worksheetName: worksheetName}
}

func (s *graphSource) ReadRows(ctx context.Context) ([]string, [][]interface{}, error) {
	data, err := s.client.ReadWorksheetTable(ctx, s.worksheetName)
	if err != nil {
		return nil, nil, err
	}
	return data.Headers, data.Rows, nil
}

func (s *graphSource) Name() string {
	return "worksheet " + s.worksheetName
}

type localWorkbookSource struct {
	path          string
	worksheetName string
}

func NewLocalWorkbookSource(path, worksheetName string) RowSource {
	return &localWorkbookSource{path: path, worksheetName: worksheetName}
}

// ReadRows opens the workbook and reads the named sheet with raw cell
// values, so date serials arrive as numeric strings and go through the
// same serial-to-ISO conversion as the remote path. First row is headers.
func (s *localWorkbookSource) ReadRows(ctx context.Context) ([]string, [][]interface{}, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook %s: %w", s.path, err)
	}
	defer f.Close()

	cells, err := f.GetRows(s.worksheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q from %s: %w", s.worksheetName, s.path, err)
	}
	if len(cells) == 0 {
		return nil, nil, nil
	}

	headers := cells[0]
	rows := make([][]interface{}, 0, len(cells)-1)
	for _, r := range cells[1:] {
		row := make([]interface{}, len(r))
		for i, v := range r {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func (s *localWorkbookSource) Name() string {
	return "file " + s.path
}
