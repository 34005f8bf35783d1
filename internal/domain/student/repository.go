package student

import (
	"context"
)

// Repository defines the operations for reading and writing Student rows.
type Repository interface {
	ListAll(ctx context.Context) ([]Student, error)
	// ListByStatus reads the students with the given situation; a positive
	// cohort also restricts the year of entry.
	ListByStatus(ctx context.Context, status string, cohort int) ([]Student, error)
	Create(ctx context.Context, s *Student) error
}
