package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sedlabs/expense-claims/internal/application/port"
	"github.com/sedlabs/expense-claims/internal/domain/authz"
	"github.com/sedlabs/expense-claims/internal/domain/claim"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
	"github.com/sedlabs/expense-claims/internal/domain/history"
	"github.com/sedlabs/expense-claims/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Draft carries the line-item collections of a submit or edit request. The
// claim amount is never part of a draft; it is always derived.
type Draft struct {
	Department string
	Project    string
	Travel     []entity.TravelEntry
	Allowances []entity.AllowanceRow
	Bills      []entity.HotelFoodBill
	Receipts   entity.ReceiptRefs
}

// WorkflowService orchestrates the expense approval workflow: it validates
// requests, computes claim amounts, enforces authorization, applies state
// transitions and writes the review ledger.
type WorkflowService interface {
	Submit(ctx context.Context, actor entity.Actor, draft Draft) (*entity.Expense, error)
	Edit(ctx context.Context, actor entity.Actor, expenseID int64, draft Draft) (*entity.Expense, error)
	Review(ctx context.Context, actor entity.Actor, expenseID int64, action, comment string) (*entity.Expense, error)
	Get(ctx context.Context, expenseID int64) (*entity.Expense, error)
	GetByReference(ctx context.Context, reference string) (*entity.Expense, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Expense, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Expense, error)
	History(ctx context.Context, expenseID int64) ([]entity.HistoryRecord, error)
}

type workflowServiceImpl struct {
	expenseRepo port.ExpenseRepository
	historyRepo port.HistoryRepository
	policy      *authz.Policy
	txManager   port.TransactionManager
	logger      Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	expenseRepo port.ExpenseRepository,
	historyRepo port.HistoryRepository,
	policy *authz.Policy,
	txManager port.TransactionManager,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		expenseRepo: expenseRepo,
		historyRepo: historyRepo,
		policy:      policy,
		txManager:   txManager,
		logger:      logger,
	}
}

// Submit validates a draft, computes its claim amount and creates the
// expense in pending status together with its "submitted" ledger entry.
func (s *workflowServiceImpl) Submit(ctx context.Context, actor entity.Actor, draft Draft) (*entity.Expense, error) {
	normalizeDraft(&draft)

	breakdown := claim.Aggregate(draft.Travel, draft.Allowances, draft.Bills, claim.ScopeRates(draft.Allowances))
	if !breakdown.Total.IsPositive() {
		return nil, ErrInvalidClaim
	}

	now := time.Now()
	expense := &entity.Expense{
		Reference:   uuid.NewString(),
		OwnerID:     actor.ID,
		Department:  draft.Department,
		Project:     draft.Project,
		Status:      entity.StatusPending,
		ClaimAmount: breakdown.Total,
		Travel:      draft.Travel,
		Allowances:  draft.Allowances,
		Bills:       draft.Bills,
		Receipts:    draft.Receipts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, expense); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}

		record := &entity.HistoryRecord{
			ExpenseID: expense.ID,
			Action:    entity.ActionSubmitted,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Timestamp: now,
		}
		if err := s.historyRepo.Append(txCtx, record); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit expense", "error", err, "owner_id", actor.ID)
		return nil, err
	}

	s.logger.Info("Expense submitted",
		"id", expense.ID,
		"reference", expense.Reference,
		"owner_id", actor.ID,
		"claim_amount", expense.ClaimAmount.String())
	return expense, nil
}

// Edit rebuilds the line items of a rejected expense, recomputes the claim
// amount and returns the expense to pending with a "resubmitted" ledger
// entry. Owner and project reference never change.
func (s *workflowServiceImpl) Edit(ctx context.Context, actor entity.Actor, expenseID int64, draft Draft) (*entity.Expense, error) {
	expense, err := s.getExisting(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanEdit(actor, expense) {
		s.logger.Info("Edit denied",
			"expense_id", expenseID,
			"actor_id", actor.ID,
			"status", expense.Status)
		return nil, ErrForbidden
	}

	normalizeDraft(&draft)
	breakdown := claim.Aggregate(draft.Travel, draft.Allowances, draft.Bills, claim.ScopeRates(draft.Allowances))
	if !breakdown.Total.IsPositive() {
		return nil, ErrInvalidClaim
	}

	now := time.Now()
	expense.Status = entity.StatusPending
	expense.ClaimAmount = breakdown.Total
	expense.Travel = draft.Travel
	expense.Allowances = draft.Allowances
	expense.Bills = draft.Bills
	expense.Receipts = draft.Receipts
	expense.UpdatedAt = now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("update expense: %w", err)
		}

		record := &entity.HistoryRecord{
			ExpenseID: expense.ID,
			Action:    entity.ActionResubmitted,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Timestamp: now,
		}
		if err := s.historyRepo.Append(txCtx, record); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to resubmit expense", "error", err, "expense_id", expenseID)
		return nil, err
	}

	s.logger.Info("Expense resubmitted",
		"id", expense.ID,
		"actor_id", actor.ID,
		"claim_amount", expense.ClaimAmount.String())
	return expense, nil
}

// Review applies an approve/reject action. The comment gate runs before
// anything else; the state machine decides the next status; status change
// and ledger entry persist atomically.
func (s *workflowServiceImpl) Review(ctx context.Context, actor entity.Actor, expenseID int64, action, comment string) (*entity.Expense, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrMissingComment
	}

	expense, err := s.getExisting(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	// No transition defined for (status, action) means the request conflicts
	// with the lifecycle itself, regardless of who asks. The authorization
	// gate only applies to reviews the state machine could accept.
	state := workflow.State(expense.Status)
	if _, defined := workflow.RequiredRole(state, workflow.Action(action)); !defined {
		return nil, fmt.Errorf("%w: cannot %s from state %s", workflow.ErrInvalidTransition, action, state)
	}

	allowed, err := s.policy.CanReview(ctx, actor, expense)
	if err != nil {
		s.logger.Error("Failed to evaluate review authorization", "error", err, "expense_id", expenseID)
		return nil, err
	}
	if !allowed {
		// Denied attempts are logged but never written to the ledger.
		s.logger.Info("Review denied",
			"expense_id", expenseID,
			"actor_id", actor.ID,
			"actor_role", actor.Role.String(),
			"status", expense.Status)
		return nil, ErrForbidden
	}

	next, err := workflow.Next(state, workflow.Action(action), workflow.ReviewRole(actor.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Conditional on the status the decision was made against: a
		// concurrent review that already moved the expense loses here
		// instead of overwriting.
		if err := s.expenseRepo.UpdateStatus(txCtx, expense.ID, expense.Status, next.String()); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		record := &entity.HistoryRecord{
			ExpenseID: expense.ID,
			Action:    next.String(),
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Comment:   comment,
			Timestamp: now,
		}
		if err := s.historyRepo.Append(txCtx, record); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to review expense", "error", err, "expense_id", expenseID)
		return nil, err
	}

	expense.Status = next.String()
	expense.UpdatedAt = now

	s.logger.Info("Expense reviewed",
		"id", expense.ID,
		"action", action,
		"new_status", expense.Status,
		"reviewer_id", actor.ID)
	return expense, nil
}

// Get retrieves an expense by ID
func (s *workflowServiceImpl) Get(ctx context.Context, expenseID int64) (*entity.Expense, error) {
	return s.getExisting(ctx, expenseID)
}

// GetByReference retrieves an expense by its public reference
func (s *workflowServiceImpl) GetByReference(ctx context.Context, reference string) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByReference(ctx, reference)
	if err != nil {
		s.logger.Error("Failed to get expense by reference", "error", err, "reference", reference)
		return nil, err
	}
	if expense == nil {
		return nil, ErrNotFound
	}
	return expense, nil
}

// List retrieves a paginated list of expenses
func (s *workflowServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Expense, error) {
	expenses, err := s.expenseRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		return nil, err
	}
	return expenses, nil
}

// ListByOwner retrieves one employee's expenses with pagination
func (s *workflowServiceImpl) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Expense, error) {
	expenses, err := s.expenseRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list expenses by owner", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return expenses, nil
}

// History returns the ordered, deduplicated review ledger for an expense.
func (s *workflowServiceImpl) History(ctx context.Context, expenseID int64) ([]entity.HistoryRecord, error) {
	if _, err := s.getExisting(ctx, expenseID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListByExpense(ctx, expenseID)
	if err != nil {
		s.logger.Error("Failed to read history", "error", err, "expense_id", expenseID)
		return nil, err
	}
	return history.Dedupe(records), nil
}

func (s *workflowServiceImpl) getExisting(ctx context.Context, expenseID int64) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		s.logger.Error("Failed to get expense", "error", err, "expense_id", expenseID)
		return nil, err
	}
	if expense == nil {
		return nil, ErrNotFound
	}
	return expense, nil
}

// normalizeDraft applies entry-time rules: SED-provided travel carries no
// fare, and allowance day counts are recomputed from the date spans.
func normalizeDraft(draft *Draft) {
	for i := range draft.Travel {
		draft.Travel[i].Normalize()
	}
	for i := range draft.Allowances {
		draft.Allowances[i].Days = claim.DayCount(draft.Allowances[i].FromDate, draft.Allowances[i].ToDate)
	}
}
