package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type RunPayrollRequest struct {
	Period     string `json:"period" binding:"required,len=7"` // YYYY-MM
	Allowances string `json:"allowances" binding:"omitempty"`
}

// PayrollRunResult summarizes one payroll run.
type PayrollRunResult struct {
	Period    string          `json:"period"`
	Created   int             `json:"created"`
	Skipped   int             `json:"skipped"` // already settled for the period
	TotalNet  decimal.Decimal `json:"total_net"`
	Employees int             `json:"employees"`
}

type PayrollService interface {
	Run(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req RunPayrollRequest) (*PayrollRunResult, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Payroll, error)
	List(ctx context.Context, filter repository.PayrollFilter) ([]model.Payroll, int64, error)
	Finalize(ctx context.Context, companyID, id uuid.UUID) (*model.Payroll, error)
}

type payrollService struct {
	payrolls      repository.PayrollRepository
	employees     repository.EmployeeRepository
	deductions    repository.DeductionRepository
	notifications NotificationService
	txm           repository.TransactionManager
	audit         AuditService
}

func NewPayrollService(
	payrolls repository.PayrollRepository,
	employees repository.EmployeeRepository,
	deductions repository.DeductionRepository,
	notifications NotificationService,
	txm repository.TransactionManager,
	audit AuditService,
) PayrollService {
	return &payrollService{
		payrolls:      payrolls,
		employees:     employees,
		deductions:    deductions,
		notifications: notifications,
		txm:           txm,
		audit:         audit,
	}
}

// periodBounds returns the [start, end) window for a YYYY-MM period.
func periodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("period must be YYYY-MM")
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Run settles the given period for every active employee of the company.
// Employees already settled for the period are skipped, so re-running a
// partially failed period only fills the gaps. The whole run commits or
// rolls back as one transaction.
func (s *payrollService) Run(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req RunPayrollRequest) (*PayrollRunResult, error) {
	from, to, err := periodBounds(req.Period)
	if err != nil {
		return nil, err
	}
	allowances, err := parseMoney(req.Allowances)
	if err != nil {
		return nil, err
	}

	employees, _, err := s.employees.List(ctx, repository.EmployeeFilter{
		CompanyID: companyID,
		Status:    model.EmployeeActive,
		Limit:     10000,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(employees) == 0 {
		return nil, apperrors.Validation("company has no active employees")
	}

	result := &PayrollRunResult{Period: req.Period, TotalNet: decimal.Zero, Employees: len(employees)}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range employees {
			emp := &employees[i]

			if _, err := s.payrolls.GetByPeriod(txCtx, emp.ID, req.Period); err == nil {
				result.Skipped++
				continue
			} else if !repository.IsNotFound(err) {
				return err
			}

			deducted, err := s.deductions.SumForPeriod(txCtx, emp.ID, from, to)
			if err != nil {
				return err
			}
			net := emp.Salary.Add(allowances).Sub(deducted)

			row := &model.Payroll{
				CompanyID:  companyID,
				EmployeeID: emp.ID,
				Period:     req.Period,
				BaseSalary: emp.Salary,
				Allowances: allowances,
				Deductions: deducted,
				NetSalary:  net,
				Status:     model.PayrollDraft,
				RunBy:      actor,
			}
			if err := s.payrolls.Create(txCtx, row); err != nil {
				return err
			}
			result.Created++
			result.TotalNet = result.TotalNet.Add(net)
		}

		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionRunPayroll,
			EntityID:  req.Period,
			Details:   map[string]interface{}{"created": result.Created, "skipped": result.Skipped},
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return result, nil
}

func (s *payrollService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Payroll, error) {
	payroll, err := s.payrolls.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("payroll not found")
		}
		return nil, apperrors.Internal(err)
	}
	if payroll.CompanyID != companyID {
		return nil, apperrors.NotFound("payroll not found")
	}
	return payroll, nil
}

func (s *payrollService) List(ctx context.Context, filter repository.PayrollFilter) ([]model.Payroll, int64, error) {
	rows, total, err := s.payrolls.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

// Finalize marks a draft settlement final and notifies the employee.
// Finalizing twice is a conflict.
func (s *payrollService) Finalize(ctx context.Context, companyID, id uuid.UUID) (*model.Payroll, error) {
	payroll, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if payroll.Status == model.PayrollFinal {
		return nil, apperrors.Conflict("payroll already finalized")
	}
	payroll.Status = model.PayrollFinal

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payrolls.Update(txCtx, payroll); err != nil {
			return err
		}
		return s.notifications.NotifyEmployee(txCtx, companyID, payroll.EmployeeID,
			model.NotificationPayrollReady, "Payroll ready",
			"Your payroll for "+payroll.Period+" has been finalized",
			map[string]string{"payroll_id": payroll.ID.String(), "period": payroll.Period})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return payroll, nil
}
