package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/adapters/out/postgres/pgerr"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	violation := &pq.Error{Code: "23505", Constraint: "task_locks_task_uniq"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"any constraint", violation, "", true},
		{"matching constraint", violation, "task_locks_task_uniq", true},
		{"other constraint", violation, "shipments_number_uniq", false},
		{"wrapped", fmt.Errorf("insert: %w", violation), "", true},
		{"foreign key", &pq.Error{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerr.IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
