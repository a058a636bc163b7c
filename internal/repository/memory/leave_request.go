package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.leaves {
		if existing.EmployeeID == req.EmployeeID &&
			existing.Date.Equal(req.Date) &&
			existing.Status != leave.LeaveRequestStatusRejected {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestExists
		}
	}
	now := r.s.now()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.s.data.leaves[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.data.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, notFound(leave.ErrLeaveRequestNotFound, id)
	}
	return req, nil
}

func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, approvedBy *string, reviewedAt time.Time, rejectionReason *string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.data.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, notFound(leave.ErrLeaveRequestNotFound, id)
	}
	req.Status = status
	req.ApprovedBy = approvedBy
	req.ReviewedAt = &reviewedAt
	req.RejectionReason = rejectionReason
	req.UpdatedAt = r.s.now()
	r.s.data.leaves[id] = req
	return req, nil
}

func (r *leaveRequestRepository) ListApproved(ctx context.Context, employeeID string, p period.Period) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []leave.LeaveRequest
	for _, req := range r.s.data.leaves {
		if req.EmployeeID == employeeID &&
			req.Status == leave.LeaveRequestStatusApproved &&
			p.Contains(req.Date) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
