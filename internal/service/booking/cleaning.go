package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/metrics"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

// ScheduleCleaning assigns a cleaner to a room. The window must be free on
// the room and on the employee's own agenda.
//
// Returns:
//   - error: ErrInvalidWindow if start is not before end.
//   - error: ErrRoomNotFound or ErrEmployeeNotFound for unknown references.
//   - error: ErrNotCleaningStaff if the employee has another role.
//   - error: schedule.ConflictError on a room or employee overlap.
func (s *Service) ScheduleCleaning(
	ctx context.Context,
	roomID, employeeID int64,
	start, end time.Time,
) (*domain.CleaningAssignment, error) {
	const op = "service.booking.ScheduleCleaning"

	if !schedule.ValidWindow(start, end) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidWindow)
	}

	var assignment *domain.CleaningAssignment

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		after func(repository.AfterCommit),
	) error {
		room, err := r.Rooms().Lock(ctx, roomID)
		if err != nil {
			return notFound(err, ErrRoomNotFound)
		}

		employee, err := r.Catalog().LockEmployee(ctx, employeeID)
		if err != nil {
			return notFound(err, ErrEmployeeNotFound)
		}

		if employee.Role != domain.RoleCleaning {
			return ErrNotCleaningStaff
		}

		if err := checkRoom(ctx, r, room.ID, start, end, nil); err != nil {
			return err
		}

		agenda, err := r.Cleanings().EmployeeTimeline(ctx, employee.ID, start, end)
		if err != nil {
			return err
		}

		if slot, ok := agenda.EmployeeConflict(employee.ID, start, end, nil); ok {
			return schedule.ConflictError{With: slot}
		}

		assignment = &domain.CleaningAssignment{
			ID:         uuid.New(),
			RoomID:     room.ID,
			EmployeeID: employee.ID,
			Starts:     start,
			Ends:       end,
			Status:     domain.CleaningScheduled,
		}

		if err := r.Cleanings().Create(ctx, assignment); err != nil {
			return err
		}

		after(func(context.Context) {
			metrics.CleaningsScheduled.Inc()
		})

		return nil
	})
	if err != nil {
		return nil, translateCommitErr(op, err)
	}

	return assignment, nil
}

func (s *Service) DeleteCleaning(ctx context.Context, id uuid.UUID) error {
	const op = "service.booking.DeleteCleaning"

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		r repository.Repos,
		_ func(repository.AfterCommit),
	) error {
		if err := r.Cleanings().Delete(ctx, id); err != nil {
			return notFound(err, ErrCleaningNotFound)
		}
		return nil
	})

	return translateCommitErr(op, err)
}
