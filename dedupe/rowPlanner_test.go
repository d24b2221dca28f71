package dedupe

import (
	"context"
	"io"
	"reflect"
	"testing"

	"bitbucket.org/invoicedesk/postal_backend/migration"
	"bitbucket.org/invoicedesk/postal_backend/msgraph"
	"github.com/sirupsen/logrus"
)

var dedupeHeaders = []string{
	"Invoice Number", "Invoice Date", "Total",
	"File Name", "File URL", "Supplier", "ABN", "BSB", "Account Number", "GST",
}

func row(values ...interface{}) migration.RawRow {
	return migration.NewRawRow(dedupeHeaders, values)
}

// full row scores 10+5+5+3+2+1+1+1; sparse copies score less.
func fullRow(num string) migration.RawRow {
	return row(num, "2024-01-01", 100.0, "a.pdf", "https://x/a.pdf", "Acme", "51824753556", "062-000", "12345678", 9.09)
}

func sparseRow(num string) migration.RawRow {
	return row(num, "2024-01-01", 100.0, "", "", "Acme", "", "", "", nil)
}

func TestCompletenessScore(t *testing.T) {
	if got := CompletenessScore(fullRow("INV-1")); got != 28 {
		t.Errorf("full row score = %d, want 28", got)
	}
	if got := CompletenessScore(sparseRow("INV-1")); got != 13 {
		t.Errorf("sparse row score = %d, want 13 (number 10 + supplier 3)", got)
	}
}

func TestPlanRowDedupe_KeepsHighestScore(t *testing.T) {
	rows := []migration.RawRow{
		sparseRow("INV-1"), // index 0, score 13
		fullRow("INV-1"),   // index 1, score 28 -> keep
		fullRow("INV-2"),   // unique, untouched
	}

	plan := PlanRowDedupe(rows)
	if len(plan.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(plan.Groups))
	}
	g := plan.Groups[0]
	if g.KeepIndex != 1 {
		t.Errorf("keep index = %d, want 1 (the more complete row)", g.KeepIndex)
	}
	if !reflect.DeepEqual(g.DeleteIndexes, []int{0}) {
		t.Errorf("delete indexes = %v, want [0]", g.DeleteIndexes)
	}
}

func TestPlanRowDedupe_TieBreaksOnFirstSeen(t *testing.T) {
	rows := []migration.RawRow{
		fullRow("INV-1"),
		fullRow("INV-1"),
		fullRow("INV-1"),
	}

	plan := PlanRowDedupe(rows)
	if plan.Groups[0].KeepIndex != 0 {
		t.Errorf("equal scores kept index %d, want first-seen 0", plan.Groups[0].KeepIndex)
	}
	if !reflect.DeepEqual(plan.DeleteOrder, []int{2, 1}) {
		t.Errorf("delete order = %v, want [2 1]", plan.DeleteOrder)
	}
}

func TestPlanRowDedupe_DifferentTotalsAreNotDuplicates(t *testing.T) {
	rows := []migration.RawRow{
		row("INV-1", "2024-01-01", 100.0, "a.pdf", "", "Acme", "", "", "", nil),
		row("INV-1", "2024-01-01", 200.0, "a.pdf", "", "Acme", "", "", "", nil),
	}
	if plan := PlanRowDedupe(rows); len(plan.Groups) != 0 {
		t.Errorf("rows differing on total were grouped: %+v", plan.Groups)
	}
}

func TestPlanRowDedupe_RowsWithoutInvoiceNumberAreSkipped(t *testing.T) {
	rows := []migration.RawRow{
		row(nil, "2024-01-01", 100.0, "a.pdf", "", "Acme", "", "", "", nil),
		row(nil, "2024-01-01", 100.0, "b.pdf", "", "Acme", "", "", "", nil),
	}
	if plan := PlanRowDedupe(rows); len(plan.DeleteOrder) != 0 {
		t.Errorf("keyless rows were marked for deletion: %v", plan.DeleteOrder)
	}
}

type recordingDeleter struct {
	calls []int
	fail  bool
}

func (d *recordingDeleter) DeleteTableRow(ctx context.Context, tableID string, index int) error {
	d.calls = append(d.calls, index)
	return nil
}

// Deleting by index shifts every following row up, so deletions must run
// bottom-up. Given doomed indices {2, 5, 9} the delete calls go 9, 5, 2.
func TestExecuteRowPlan_DeletesDescending(t *testing.T) {
	rows := make([]migration.RawRow, 10)
	for i := range rows {
		rows[i] = fullRow("INV-UNIQ-" + string(rune('A'+i)))
	}
	// Rows 2, 5, 9 duplicate row 0 exactly; row 0 wins on first-seen.
	rows[0] = fullRow("INV-1")
	rows[2] = fullRow("INV-1")
	rows[5] = fullRow("INV-1")
	rows[9] = fullRow("INV-1")

	plan := PlanRowDedupe(rows)
	if !reflect.DeepEqual(plan.DeleteOrder, []int{9, 5, 2}) {
		t.Fatalf("delete order = %v, want [9 5 2]", plan.DeleteOrder)
	}

	deleter := &recordingDeleter{}
	deleted, err := ExecuteRowPlan(context.Background(), deleter, "tbl", plan, false, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if !reflect.DeepEqual(deleter.calls, []int{9, 5, 2}) {
		t.Errorf("delete calls = %v, want [9 5 2] (descending)", deleter.calls)
	}
}

func TestExecuteRowPlan_DryRunDeletesNothing(t *testing.T) {
	plan := RowPlan{DeleteOrder: []int{3, 1}}
	deleter := &recordingDeleter{}

	deleted, err := ExecuteRowPlan(context.Background(), deleter, "tbl", plan, true, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 || len(deleter.calls) != 0 {
		t.Errorf("dry run issued %d delete calls", len(deleter.calls))
	}
}

func TestPlanFileCleanup(t *testing.T) {
	folder := &struct {
		ChildCount int `json:"childCount"`
	}{}
	archive := []msgraph.DriveItem{
		{ID: "a1", Name: "Scan_001.pdf", Size: 1000},
		{ID: "a2", Name: "scan_002.pdf", Size: 2000},
		{ID: "a3", Name: "Old", Folder: folder},
	}
	pending := []msgraph.DriveItem{
		{ID: "p1", Name: "scan_001.pdf", Size: 1000},  // name case-folds, same size -> delete
		{ID: "p2", Name: "scan_002.pdf", Size: 2001},  // size differs -> keep
		{ID: "p3", Name: "scan_003.pdf", Size: 3000},  // not archived -> keep
		{ID: "p4", Name: "Old", Folder: folder},       // folders ignored
	}

	doomed := PlanFileCleanup(archive, pending)
	if len(doomed) != 1 || doomed[0].ID != "p1" {
		t.Errorf("doomed = %+v, want only p1", doomed)
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
