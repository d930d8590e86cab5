package services

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Name() string
	Count(ctx context.Context) (int, error)
}

type Stats struct {
	Employees   int `json:"employees" yaml:"employees"`
	Departments int `json:"departments" yaml:"departments"`
	Locations   int `json:"locations" yaml:"locations"`
	Jobs        int `json:"jobs" yaml:"jobs"`
}

type DashboardService struct {
	employees   Counter
	departments Counter
	locations   Counter
	jobs        Counter
}

func NewDashboardService(employees, departments, locations, jobs Counter) *DashboardService {
	return &DashboardService{
		employees:   employees,
		departments: departments,
		locations:   locations,
		jobs:        jobs,
	}
}

// Stats counts every resource concurrently; the first failure cancels the
// rest.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	count := func(c Counter, dst *int) {
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				return errors.Wrapf(err, "count %s", c.Name())
			}
			*dst = n
			return nil
		})
	}
	count(s.employees, &stats.Employees)
	count(s.departments, &stats.Departments)
	count(s.locations, &stats.Locations)
	count(s.jobs, &stats.Jobs)
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
