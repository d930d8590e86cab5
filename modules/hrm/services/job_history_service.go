package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/pkg/apiclient"
)

// JobHistoryService is read-only.
type JobHistoryService struct {
	res *apiclient.Resource[domain.JobHistoryEntry]
}

func NewJobHistoryService(client *apiclient.Client) *JobHistoryService {
	return &JobHistoryService{
		res: apiclient.NewResource[domain.JobHistoryEntry](client, "job-history", "job_history", "job_histories"),
	}
}

func (s *JobHistoryService) GetAll(ctx context.Context) ([]domain.JobHistoryEntry, error) {
	return s.res.GetAll(ctx)
}

func (s *JobHistoryService) ListFor(ctx context.Context, employeeID string) ([]domain.JobHistoryEntry, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, errors.New("employee id is required")
	}
	return s.res.List(ctx, "employee/"+employeeID, nil)
}
