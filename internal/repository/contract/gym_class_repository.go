package contract

import (
	"context"

	"gym-agent-be/internal/entity"
)

type GymClassRepository interface {
	EnsureSchema(ctx context.Context) error
	// SeedDefaults inserts the default timetable when the table is empty and
	// returns the number of rows inserted.
	SeedDefaults(ctx context.Context) (int, error)
	Create(ctx context.Context, class *entity.GymClass) error
	FindAll(ctx context.Context) ([]*entity.GymClass, error)
	Count(ctx context.Context) (int64, error)
}
