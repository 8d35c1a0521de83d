package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

// Service HTTP 層需要的帳務操作 (usecase.CoreUseCase 實作此介面)
type Service interface {
	CreateAccount(ctx context.Context, name, taxID string) (domain.Customer, error)
	FindAccount(ctx context.Context, taxID string) (domain.Customer, error)
	ListAccounts(ctx context.Context) ([]domain.Customer, error)
	UpdateAccount(ctx context.Context, taxID, name string) error
	DeleteAccount(ctx context.Context, taxID string) error
	Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (domain.Receipt, error)
	GetAccountBalance(ctx context.Context, taxID string) (decimal.Decimal, error)
	GetStatement(ctx context.Context, taxID string) ([]domain.Entry, error)
	GetStatementByDay(ctx context.Context, taxID string, day domain.Date) ([]domain.Entry, error)
}

type createAccountRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"taxId"`
}

type updateAccountRequest struct {
	Name string `json:"name"`
}

// movementRequest 存款 / 提款
type movementRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type pixRequest struct {
	Target      string          `json:"target"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type balanceResponse struct {
	TaxID   string          `json:"taxId"`
	Balance decimal.Decimal `json:"balance"`
}

// Handler 帳戶與交易的 HTTP handler
type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// CreateAccount POST /account
func (h *Handler) CreateAccount(c *gin.Context) {
	var in createAccountRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBadBody(c, err)
		return
	}
	customer, err := h.svc.CreateAccount(c.Request.Context(), in.Name, in.TaxID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: "Customer created", Data: customer})
}

// ListAccounts GET /account
func (h *Handler) ListAccounts(c *gin.Context) {
	customers, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: customers})
}

// GetAccount GET /account/:taxId
func (h *Handler) GetAccount(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: customer})
}

// UpdateAccount PUT /account/:taxId
func (h *Handler) UpdateAccount(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	var in updateAccountRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBadBody(c, err)
		return
	}
	if err := h.svc.UpdateAccount(c.Request.Context(), customer.TaxID, in.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Customer updated"})
}

// DeleteAccount DELETE /account/:taxId
func (h *Handler) DeleteAccount(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), customer.TaxID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Customer deleted"})
}

// GetStatement GET /statement/:taxId
func (h *Handler) GetStatement(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	entries, err := h.svc.GetStatement(c.Request.Context(), customer.TaxID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: entries})
}

// GetStatementByDay GET /statement/:taxId/date?date=YYYY-MM-DD
func (h *Handler) GetStatementByDay(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	day, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.svc.GetStatementByDay(c.Request.Context(), customer.TaxID, day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: entries})
}

// GetBalance GET /balance/:taxId
func (h *Handler) GetBalance(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	balance, err := h.svc.GetAccountBalance(c.Request.Context(), customer.TaxID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: balanceResponse{TaxID: customer.TaxID, Balance: balance}})
}

// Deposit POST /deposit/:taxId
func (h *Handler) Deposit(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	var in movementRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBadBody(c, err)
		return
	}
	receipt, err := h.svc.Deposit(c.Request.Context(), customer.TaxID, in.Description, in.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Deposit applied", Data: receipt})
}

// Withdraw POST /withdraw/:taxId
func (h *Handler) Withdraw(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	var in movementRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBadBody(c, err)
		return
	}
	receipt, err := h.svc.Withdraw(c.Request.Context(), customer.TaxID, in.Description, in.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Withdraw applied", Data: receipt})
}

// Pix POST /pix/:taxId
func (h *Handler) Pix(c *gin.Context) {
	customer, ok := h.lookup(c)
	if !ok {
		return
	}
	var in pixRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBadBody(c, err)
		return
	}
	receipt, err := h.svc.Transfer(c.Request.Context(), customer.TaxID, in.Target, in.Amount, in.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Pix sent", Data: receipt})
}

// lookup 依路徑參數 taxId 找客戶；找不到時寫入錯誤回應並回傳 false
func (h *Handler) lookup(c *gin.Context) (domain.Customer, bool) {
	customer, err := h.svc.FindAccount(c.Request.Context(), c.Param("taxId"))
	if err != nil {
		writeError(c, err)
		return domain.Customer{}, false
	}
	return customer, true
}
