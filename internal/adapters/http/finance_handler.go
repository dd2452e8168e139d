package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lifehub/core/internal/application/store"
	"github.com/lifehub/core/internal/domain/entities"
	"github.com/lifehub/core/internal/infrastructure/logger"
)

// FinanceHandler handles transactions, financial goals, investments and the
// emergency reserve
type FinanceHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(s *store.Store, logger *logger.Logger) *FinanceHandler {
	return &FinanceHandler{store: s, logger: logger}
}

// CreateTransactionRequest is the payload for recording a transaction
type CreateTransactionRequest struct {
	ID          string    `json:"id" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Type        string    `json:"type" validate:"required,oneof=income expense"`
	OccurredAt  time.Time `json:"occurred_at"`
	TaskID      *string   `json:"task_id"`
}

func (h *FinanceHandler) ListTransactions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Transactions())
}

func (h *FinanceHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx := entities.Transaction{
		ID:          req.ID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        entities.TransactionType(req.Type),
		OccurredAt:  req.OccurredAt,
		TaskID:      req.TaskID,
	}
	h.store.AddTransaction(tx)

	return c.JSON(http.StatusCreated, tx)
}

func (h *FinanceHandler) UpdateTransaction(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateTransaction(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Transaction not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceHandler) DeleteTransaction(c echo.Context) error {
	if !h.store.DeleteTransaction(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Transaction not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateFinancialGoalRequest is the payload for creating a financial goal
type CreateFinancialGoalRequest struct {
	ID            string     `json:"id" validate:"required"`
	Title         string     `json:"title" validate:"required"`
	CurrentAmount float64    `json:"current_amount"`
	TargetAmount  float64    `json:"target_amount"`
	Deadline      *time.Time `json:"deadline"`
	TaskID        *string    `json:"task_id"`
}

func (h *FinanceHandler) ListFinancialGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.FinancialGoals())
}

func (h *FinanceHandler) CreateFinancialGoal(c echo.Context) error {
	var req CreateFinancialGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	goal := entities.FinancialGoal{
		ID:            req.ID,
		Title:         req.Title,
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  req.TargetAmount,
		Deadline:      req.Deadline,
		TaskID:        req.TaskID,
	}
	h.store.AddFinancialGoal(goal)

	return c.JSON(http.StatusCreated, goal)
}

func (h *FinanceHandler) UpdateFinancialGoal(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateFinancialGoal(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Financial goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceHandler) DeleteFinancialGoal(c echo.Context) error {
	if !h.store.DeleteFinancialGoal(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Financial goal not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateInvestmentRequest is the payload for adding an investment position
type CreateInvestmentRequest struct {
	ID             string  `json:"id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Type           string  `json:"type"`
	InvestedAmount float64 `json:"invested_amount"`
	CurrentAmount  float64 `json:"current_amount"`
	TaskID         *string `json:"task_id"`
}

func (h *FinanceHandler) ListInvestments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Investments())
}

func (h *FinanceHandler) CreateInvestment(c echo.Context) error {
	var req CreateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	investment := entities.Investment{
		ID:             req.ID,
		Name:           req.Name,
		Type:           req.Type,
		InvestedAmount: req.InvestedAmount,
		CurrentAmount:  req.CurrentAmount,
		TaskID:         req.TaskID,
	}
	h.store.AddInvestment(investment)

	return c.JSON(http.StatusCreated, investment)
}

func (h *FinanceHandler) UpdateInvestment(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if !h.store.UpdateInvestment(c.Param("id"), patch) {
		return echo.NewHTTPError(http.StatusNotFound, "Investment not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FinanceHandler) DeleteInvestment(c echo.Context) error {
	if !h.store.DeleteInvestment(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Investment not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// EmergencyReserveRequest replaces the reserve singleton wholesale
type EmergencyReserveRequest struct {
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	MonthsCovered int     `json:"months_covered"`
}

func (h *FinanceHandler) GetEmergencyReserve(c echo.Context) error {
	reserve := h.store.EmergencyReserve()
	if reserve == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Emergency reserve not set")
	}
	return c.JSON(http.StatusOK, reserve)
}

func (h *FinanceHandler) SetEmergencyReserve(c echo.Context) error {
	var req EmergencyReserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	reserve := entities.EmergencyReserve{
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		MonthsCovered: req.MonthsCovered,
		UpdatedAt:     time.Now().UTC(),
	}
	h.store.SetEmergencyReserve(reserve)

	return c.JSON(http.StatusOK, reserve)
}
