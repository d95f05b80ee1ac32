package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

// EmployeeInput is the staff directory form.
type EmployeeInput struct {
	Name          string                `json:"name"`
	Role          string                `json:"role"`
	Phone         string                `json:"phone"`
	Status        models.EmployeeStatus `json:"status"`
	AssignedRooms []string              `json:"assignedRooms"`
	JoiningDate   *time.Time            `json:"joiningDate"`
	IDProofType   string                `json:"idProofType"`
	IDNumber      string                `json:"idNumber"`
	Address       string                `json:"address"`
}

func (in *EmployeeInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = models.EmployeeActive
	}
	switch {
	case in.Name == "":
		return invalid("name", "Name is required")
	case in.Phone != "" && !indianMobile.MatchString(in.Phone):
		return invalid("phone", "Phone must be a 10 digit Indian mobile number")
	case in.Status != models.EmployeeActive && in.Status != models.EmployeeInactive:
		return invalid("status", "Status must be Active or Inactive")
	}
	in.AssignedRooms = dedupeRooms(in.AssignedRooms)
	return nil
}

func dedupeRooms(rooms []string) []string {
	seen := make(map[string]struct{}, len(rooms))
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (in EmployeeInput) apply(e *models.Employee) {
	e.Name = in.Name
	e.Role = strings.TrimSpace(in.Role)
	e.Phone = in.Phone
	e.Status = in.Status
	e.AssignedRooms = in.AssignedRooms
	e.JoiningDate = in.JoiningDate
	e.IDProofType = strings.TrimSpace(in.IDProofType)
	e.IDNumber = strings.TrimSpace(in.IDNumber)
	e.Address = strings.TrimSpace(in.Address)
}

type EmployeeService struct {
	Store  store.Store
	Feed   events.Feed
	Logger *logrus.Logger
}

func NewEmployeeService(st store.Store, feed events.Feed, logger *logrus.Logger) *EmployeeService {
	return &EmployeeService{Store: st, Feed: feed, Logger: logger}
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	out, err := s.Store.ListEmployees(ctx)
	return out, persistErr("list employees", err)
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	e, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return nil, persistErr("get employee", err)
	}
	return e, nil
}

// releaseRooms takes the given rooms away from every other employee. A room has one owner.
func releaseRooms(ctx context.Context, tx store.Store, ownerID uint, rooms []string) ([]uint, error) {
	if len(rooms) == 0 {
		return nil, nil
	}
	taken := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		taken[r] = struct{}{}
	}
	all, err := tx.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	var touched []uint
	for i := range all {
		e := &all[i]
		if e.ID == ownerID {
			continue
		}
		kept := make([]string, 0, len(e.AssignedRooms))
		for _, r := range e.AssignedRooms {
			if _, ok := taken[r]; !ok {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(e.AssignedRooms) {
			continue
		}
		e.AssignedRooms = kept
		if err := tx.UpdateEmployee(ctx, e); err != nil {
			return nil, err
		}
		touched = append(touched, e.ID)
	}
	return touched, nil
}

func (s *EmployeeService) publish(ctx context.Context, op events.Op, id uint, touched []uint) {
	s.Feed.Publish(ctx, events.NewEvent(events.CollectionEmployees, op, id))
	for _, other := range touched {
		s.Feed.Publish(ctx, events.NewEvent(events.CollectionEmployees, events.OpUpdate, other))
	}
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*models.Employee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	e := &models.Employee{}
	in.apply(e)
	var touched []uint
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.CreateEmployee(ctx, e); err != nil {
			return err
		}
		var err error
		touched, err = releaseRooms(ctx, tx, e.ID, e.AssignedRooms)
		return err
	})
	if err != nil {
		return nil, persistErr("create employee", err)
	}
	s.Logger.WithField("employee_id", e.ID).Info("👤 Employee created")
	s.publish(ctx, events.OpCreate, e.ID, touched)
	return e, nil
}

// Update saves the employee and moves any newly assigned rooms off their previous owners in the same transaction.
func (s *EmployeeService) Update(ctx context.Context, id uint, in EmployeeInput) (*models.Employee, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *models.Employee
	var touched []uint
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		e, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		in.apply(e)
		if err := tx.UpdateEmployee(ctx, e); err != nil {
			return err
		}
		touched, err = releaseRooms(ctx, tx, e.ID, e.AssignedRooms)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, persistErr("update employee", err)
	}
	s.publish(ctx, events.OpUpdate, id, touched)
	return out, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uint, confirm Confirmer) error {
	e, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return persistErr("get employee", err)
	}
	if !confirm("Delete employee " + e.Name + "?") {
		return ErrNotConfirmed
	}
	if err := s.Store.DeleteEmployee(ctx, id); err != nil {
		return persistErr("delete employee", err)
	}
	s.publish(ctx, events.OpDelete, id, nil)
	return nil
}
