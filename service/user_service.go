package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

type UserService struct {
	users  store.UserStore
	hrInfo store.HRInfoStore
	log    *zap.SugaredLogger
}

func NewUserService(users store.UserStore, hrInfo store.HRInfoStore, log *zap.SugaredLogger) *UserService {
	return &UserService{users: users, hrInfo: hrInfo, log: log}
}

func (s *UserService) Me(ctx context.Context, ident Identity) (*models.User, error) {
	return s.users.GetByEmail(ctx, ident.Email)
}

// HRInfo resolves company metadata for the caller: an HR account gets its
// own record, an employee gets the company name and logo of the HR they
// are affiliated with.
func (s *UserService) HRInfo(ctx context.Context, ident Identity) (*models.HRInfo, error) {
	if ident.Role == models.RoleHR {
		return s.hrInfo.GetByEmail(ctx, ident.Email)
	}
	if ident.HREmail == "" {
		return nil, errs.NewNotFound("no HR affiliation")
	}
	info, err := s.hrInfo.GetByEmail(ctx, ident.HREmail)
	if err != nil {
		return nil, err
	}
	// Employees only see the public company fields.
	return &models.HRInfo{Email: info.Email, Company: info.Company, CompanyLogo: info.CompanyLogo}, nil
}

func (s *UserService) ListByRole(ctx context.Context, ident Identity, role string) ([]models.User, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, errs.NewInvalidArgument("unknown role")
	}
	return s.users.ListByRole(ctx, role)
}

// Team lists every user affiliated with the caller's HR scope.
func (s *UserService) Team(ctx context.Context, ident Identity) ([]models.User, error) {
	scope := ident.Scope()
	if scope == "" {
		return nil, errs.NewForbidden("no HR affiliation")
	}
	return s.users.ListByHR(ctx, scope)
}

// AssignRole moves an unassigned user into the HR's team as an employee, or
// releases them back to unassigned. HR accounts themselves are never
// reassigned here.
func (s *UserService) AssignRole(ctx context.Context, ident Identity, userID primitive.ObjectID, role string) error {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return err
	}
	if role != models.RoleEmployee && role != models.RoleUnassigned {
		return errs.NewInvalidArgument("role must be employee or unassigned")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleHR {
		return errs.NewForbidden("hr accounts cannot be reassigned")
	}
	if user.Role == models.RoleEmployee && user.HREmail != ident.Email {
		return errs.NewForbidden("user belongs to another HR scope")
	}

	hrEmail := ident.Email
	if role == models.RoleUnassigned {
		hrEmail = ""
	}
	if err := s.users.UpdateRole(ctx, userID, role, hrEmail); err != nil {
		return err
	}

	s.log.Infow("user role updated", "user", userID.Hex(), "role", role, "hr", ident.Email)
	return nil
}

func (s *UserService) UpdatePackage(ctx context.Context, ident Identity, pkg string) error {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return err
	}
	if pkg == "" {
		return errs.NewInvalidArgument("package is required")
	}
	return s.hrInfo.UpdatePackage(ctx, ident.Email, pkg)
}
