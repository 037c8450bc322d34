package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/websocket"
	"hrms/pkg/apperrors"
)

// NotificationService creates and manages user notifications and pushes
// them over the websocket hub. Read-state mutations are idempotent.
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID, typ, title, message string, data interface{}) (*model.Notification, error)
	NotifyEmployee(ctx context.Context, companyID, employeeID uuid.UUID, typ, title, message string, data interface{}) error
	List(ctx context.Context, filter repository.NotificationFilter) ([]model.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	employees     repository.EmployeeRepository
	users         repository.UserRepository
	hub           *websocket.Hub
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	employees repository.EmployeeRepository,
	users repository.UserRepository,
	hub *websocket.Hub,
) NotificationService {
	return &notificationService{notifications: notifications, employees: employees, users: users, hub: hub}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID, typ, title, message string, data interface{}) (*model.Notification, error) {
	payload := ""
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			payload = string(raw)
		}
	}
	n := &model.Notification{
		UserID:    userID,
		CompanyID: companyID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      payload,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, apperrors.Internal(err)
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
	return n, nil
}

// NotifyEmployee targets the user account belonging to an employee, matched
// by email. Employees without an account simply get no notification; that
// is not an error.
func (s *notificationService) NotifyEmployee(ctx context.Context, companyID, employeeID uuid.UUID, typ, title, message string, data interface{}) error {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee.Email == "" {
		return nil
	}
	user, err := s.users.GetByEmail(ctx, employee.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if _, err := s.Notify(ctx, user.ID, &companyID, typ, title, message, data); err != nil {
		log.Println("notification: failed to notify employee:", err)
		return err
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, filter repository.NotificationFilter) ([]model.Notification, int64, error) {
	rows, total, err := s.notifications.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifications.MarkAsRead(ctx, id, userID); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifications.MarkAllAsRead(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifications.Delete(ctx, id, userID); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}
