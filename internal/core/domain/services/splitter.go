package services

import (
	"time"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
)

// DefaultMaxTaskSize is the number of lines a task holds unless configured otherwise.
const DefaultMaxTaskSize = 35

// Splitter partitions the lines of a new shipment into warehouse-scoped tasks.
//
// Business rules:
//   - lines are grouped by warehouse, groups ordered by first appearance
//   - each group is cut into consecutive chunks of at most maxTaskSize lines
//   - every task line covers the full ordered quantity of its shipment line,
//     so the quantities of a line across all tasks add up to what was ordered
//
// The result depends only on the input order, so splitting the same shipment
// twice yields the same partition.
//
// Example: lines spread 10/20/70 over three warehouses with a limit of 35
// produce four tasks of 10, 20, 35 and 35 lines.
type Splitter struct {
	maxTaskSize int
}

// NewSplitter validates the task size limit.
func NewSplitter(maxTaskSize int) (Splitter, error) {
	if maxTaskSize < 1 {
		return Splitter{}, errs.NewValueIsOutOfRangeError("max task size", maxTaskSize, 1, "unbounded")
	}
	return Splitter{maxTaskSize: maxTaskSize}, nil
}

func (s Splitter) MaxTaskSize() int {
	return s.maxTaskSize
}

// Plan groups and chunks lines without creating tasks.
func (s Splitter) Plan(lines []*shipment.Line) [][]*shipment.Line {
	order := make([]string, 0)
	groups := make(map[string][]*shipment.Line)
	for _, l := range lines {
		code := l.Warehouse().Code()
		if _, seen := groups[code]; !seen {
			order = append(order, code)
		}
		groups[code] = append(groups[code], l)
	}

	batches := make([][]*shipment.Line, 0, len(order))
	for _, code := range order {
		group := groups[code]
		for start := 0; start < len(group); start += s.maxTaskSize {
			end := min(start+s.maxTaskSize, len(group))
			batches = append(batches, group[start:end])
		}
	}
	return batches
}

// Split creates New tasks for the shipment. A shipment without lines yields no tasks.
func (s Splitter) Split(sh *shipment.Shipment, now time.Time) ([]*task.Task, error) {
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if s.maxTaskSize < 1 {
		return nil, errs.NewValueIsOutOfRangeError("max task size", s.maxTaskSize, 1, "unbounded")
	}

	batches := s.Plan(sh.Lines())
	tasks := make([]*task.Task, 0, len(batches))
	for _, batch := range batches {
		lines := make([]*task.Line, 0, len(batch))
		for _, l := range batch {
			tl, err := task.NewLine(l.ID(), l.SKU(), l.Qty())
			if err != nil {
				return nil, err
			}
			lines = append(lines, tl)
		}

		t, err := task.NewTask(sh.ID(), batch[0].Warehouse(), lines, now)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
