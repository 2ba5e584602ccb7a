package schedule

import "context"

// Task is a named unit of work driven by main.
type Task interface {
	Run(ctx context.Context) error
	Name() string
}
