package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sedlabs/expense-claims/internal/application/service"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
	"github.com/sedlabs/expense-claims/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	workflowService service.WorkflowService
	rateService     service.RateService
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(workflowService service.WorkflowService, rateService service.RateService, logger Logger) *Handlers {
	return &Handlers{
		workflowService: workflowService,
		rateService:     rateService,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TravelEntryRequest is one local-travel fare row in a draft
type TravelEntryRequest struct {
	Date      string          `json:"date" binding:"required"`
	FromPlace string          `json:"from" binding:"required"`
	ToPlace   string          `json:"to" binding:"required"`
	Mode      string          `json:"mode" binding:"required"`
	Fare      decimal.Decimal `json:"fare"`
}

// AllowanceRowRequest is one per-day allowance span in a draft
type AllowanceRowRequest struct {
	Category string          `json:"category" binding:"required"`
	FromDate string          `json:"from_date" binding:"required"`
	ToDate   string          `json:"to_date" binding:"required"`
	Scope    string          `json:"scope" binding:"required"`
	PerDay   decimal.Decimal `json:"per_day"`
}

// BillRequest is one hotel or food bill row in a draft
type BillRequest struct {
	Kind     string          `json:"kind" binding:"required"`
	FromDate string          `json:"from_date" binding:"required"`
	ToDate   string          `json:"to_date" binding:"required"`
	Sharing  string          `json:"sharing"`
	Location string          `json:"location"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseRequest is the body of a submit or edit call
type ExpenseRequest struct {
	Department string                `json:"department" binding:"required"`
	Project    string                `json:"project" binding:"required"`
	Travel     []TravelEntryRequest  `json:"travel"`
	Allowances []AllowanceRowRequest `json:"allowances"`
	Bills      []BillRequest         `json:"bills"`
	Receipts   entity.ReceiptRefs    `json:"receipts"`
}

// ReviewRequest is the body of a review call
type ReviewRequest struct {
	Action  string `json:"action" binding:"required,oneof=approve reject"`
	Comment string `json:"comment"`
}

const dateLayout = "2006-01-02"

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// SubmitExpense handles POST /api/expenses
func (h *Handlers) SubmitExpense(c *gin.Context) {
	actor, ok := h.actorFromRequest(c)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	draft, err := toDraft(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	expense, err := h.workflowService.Submit(c.Request.Context(), actor, draft)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: expense})
}

// EditExpense handles PUT /api/expenses/:id
func (h *Handlers) EditExpense(c *gin.Context) {
	actor, ok := h.actorFromRequest(c)
	if !ok {
		return
	}
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	draft, err := toDraft(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	expense, err := h.workflowService.Edit(c.Request.Context(), actor, id, draft)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// ReviewExpense handles POST /api/expenses/:id/review
func (h *Handlers) ReviewExpense(c *gin.Context) {
	actor, ok := h.actorFromRequest(c)
	if !ok {
		return
	}
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	expense, err := h.workflowService.Review(c.Request.Context(), actor, id, req.Action, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	expense, err := h.workflowService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// GetExpenseByReference handles GET /api/expenses/reference/:reference
func (h *Handlers) GetExpenseByReference(c *gin.Context) {
	reference := c.Param("reference")

	expense, err := h.workflowService.GetByReference(c.Request.Context(), reference)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// ListExpenses handles GET /api/expenses, optionally filtered by ?owner=
func (h *Handlers) ListExpenses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var expenses []*entity.Expense
	var err error
	if owner := c.Query("owner"); owner != "" {
		expenses, err = h.workflowService.ListByOwner(c.Request.Context(), owner, limit, offset)
	} else {
		expenses, err = h.workflowService.List(c.Request.Context(), limit, offset)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expenses})
}

// GetHistory handles GET /api/expenses/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	id, ok := h.expenseID(c)
	if !ok {
		return
	}

	records, err := h.workflowService.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// GetRates handles GET /api/rates/:designation
func (h *Handlers) GetRates(c *gin.Context) {
	designation := c.Param("designation")

	rates, err := h.rateService.RatesForDesignation(c.Request.Context(), designation)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: rates})
}

// actorFromRequest resolves the authenticated identity from the request.
// Authentication happens upstream; this adapter only consumes the resolved
// id and role headers.
func (h *Handlers) actorFromRequest(c *gin.Context) (entity.Actor, bool) {
	actor := entity.Actor{
		ID:   c.GetHeader("X-Actor-ID"),
		Role: entity.Role(c.GetHeader("X-Actor-Role")),
	}
	if actor.ID == "" || !actor.Role.IsValid() {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "missing or invalid actor identity"})
		return entity.Actor{}, false
	}
	return actor, true
}

func (h *Handlers) expenseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid expense ID"})
		return 0, false
	}
	return id, true
}

// respondError maps error kinds to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrMissingComment):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrInvalidClaim):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
		message = err.Error()
	default:
		h.logger.Error("Unhandled error", "error", err)
	}

	c.JSON(status, Response{Success: false, Error: message})
}

func toDraft(req ExpenseRequest) (service.Draft, error) {
	draft := service.Draft{
		Department: req.Department,
		Project:    req.Project,
		Receipts:   req.Receipts,
	}

	for _, t := range req.Travel {
		date, err := time.Parse(dateLayout, t.Date)
		if err != nil {
			return service.Draft{}, errors.New("invalid travel date: " + t.Date)
		}
		if t.Fare.IsNegative() {
			return service.Draft{}, errors.New("travel fare must not be negative")
		}
		draft.Travel = append(draft.Travel, entity.TravelEntry{
			Date:      date,
			FromPlace: t.FromPlace,
			ToPlace:   t.ToPlace,
			Mode:      t.Mode,
			Fare:      t.Fare,
		})
	}

	for _, a := range req.Allowances {
		from, err := time.Parse(dateLayout, a.FromDate)
		if err != nil {
			return service.Draft{}, errors.New("invalid allowance from date: " + a.FromDate)
		}
		to, err := time.Parse(dateLayout, a.ToDate)
		if err != nil {
			return service.Draft{}, errors.New("invalid allowance to date: " + a.ToDate)
		}
		if a.PerDay.IsNegative() {
			return service.Draft{}, errors.New("per-day amount must not be negative")
		}
		draft.Allowances = append(draft.Allowances, entity.AllowanceRow{
			Category: a.Category,
			FromDate: from,
			ToDate:   to,
			Scope:    a.Scope,
			PerDay:   a.PerDay,
		})
	}

	for _, b := range req.Bills {
		from, err := time.Parse(dateLayout, b.FromDate)
		if err != nil {
			return service.Draft{}, errors.New("invalid bill from date: " + b.FromDate)
		}
		to, err := time.Parse(dateLayout, b.ToDate)
		if err != nil {
			return service.Draft{}, errors.New("invalid bill to date: " + b.ToDate)
		}
		if b.Amount.IsNegative() {
			return service.Draft{}, errors.New("bill amount must not be negative")
		}
		draft.Bills = append(draft.Bills, entity.HotelFoodBill{
			Kind:     b.Kind,
			FromDate: from,
			ToDate:   to,
			Sharing:  b.Sharing,
			Location: b.Location,
			Amount:   b.Amount,
		})
	}

	return draft, nil
}
