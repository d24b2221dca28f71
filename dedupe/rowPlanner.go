package dedupe

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/invoicedesk/postal_backend/migration"
	"github.com/sirupsen/logrus"
)

type RowGroup struct {
	Key           string `json:"key"`
	KeepIndex     int    `json:"keep_index"`
	KeepScore     int    `json:"keep_score"`
	DeleteIndexes []int  `json:"delete_indexes"`
}

// RowPlan is the outcome of grouping the worksheet rows by duplicate key.
// DeleteOrder holds every doomed row index sorted descending: table-row
// deletion shifts the indices below it, so deletes must run bottom-up.
type RowPlan struct {
	Groups      []RowGroup `json:"groups"`
	DeleteOrder []int      `json:"delete_order"`
}

// PlanRowDedupe groups rows on (invoice number, invoice date, total) and
// keeps the most complete row of each group. Equal scores fall back to
// first-seen order.
func PlanRowDedupe(rows []migration.RawRow) RowPlan {
	type member struct {
		index int
		score int
	}
	groups := make(map[string][]member)
	keyOrder := make([]string, 0)

	for i, row := range rows {
		key := RowKey(row)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], member{index: i, score: CompletenessScore(row)})
	}

	var plan RowPlan
	for _, key := range keyOrder {
		members := groups[key]
		if len(members) < 2 {
			continue
		}

		keep := members[0]
		for _, m := range members[1:] {
			// Strictly greater keeps the tie-break stable on first-seen.
			if m.score > keep.score {
				keep = m
			}
		}

		group := RowGroup{Key: key, KeepIndex: keep.index, KeepScore: keep.score}
		for _, m := range members {
			if m.index != keep.index {
				group.DeleteIndexes = append(group.DeleteIndexes, m.index)
				plan.DeleteOrder = append(plan.DeleteOrder, m.index)
			}
		}
		plan.Groups = append(plan.Groups, group)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(plan.DeleteOrder)))
	return plan
}

// RowDeleter deletes one table row by zero-based index.
type RowDeleter interface {
	DeleteTableRow(ctx context.Context, tableID string, index int) error
}

// ExecuteRowPlan issues the deletions bottom-up. Dry-run prints the plan
// and touches nothing.
func ExecuteRowPlan(ctx context.Context, deleter RowDeleter, tableID string, plan RowPlan, dryRun bool, logger *logrus.Logger) (int, error) {
	if dryRun {
		fmt.Printf("[dry-run] would delete %d duplicate rows (descending): %v\n", len(plan.DeleteOrder), plan.DeleteOrder)
		return 0, nil
	}

	deleted := 0
	for _, index := range plan.DeleteOrder {
		if err := deleter.DeleteTableRow(ctx, tableID, index); err != nil {
			return deleted, fmt.Errorf("deleting row %d (deleted %d of %d so far): %w", index, deleted, len(plan.DeleteOrder), err)
		}
		deleted++
		logger.WithFields(logrus.Fields{
			"module": "dedupe",
			"row":    index,
		}).Info("deleted duplicate row")
	}
	return deleted, nil
}
