package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hisaab/internal/models"
	"hisaab/internal/services"
)

// LoanStore is the loan and repayment surface of the store.
type LoanStore interface {
	ListLoans(userID uint) []models.Loan
	GetLoan(userID, loanID uint) (*models.Loan, error)
	CreateLoan(userID uint, loan models.Loan) *models.Loan
	UpdateLoan(userID, loanID uint, patch models.LoanPatch) (*models.Loan, error)
	DeleteLoan(userID, loanID uint) error
	CompleteLoan(userID, loanID uint) (*models.Loan, error)
	ListRepayments(userID, loanID uint) []models.Repayment
	CreateRepayment(userID, loanID uint, r models.Repayment) (*models.Repayment, error)
	GetRepayment(userID, repaymentID uint) (*models.Repayment, error)
	DeleteRepayment(userID, repaymentID uint) error
}

// LoanHandler handles loan and repayment requests.
type LoanHandler struct {
	loans        LoanStore
	auditService services.AuditServicer
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loans LoanStore, auditService services.AuditServicer) *LoanHandler {
	return &LoanHandler{loans: loans, auditService: auditService}
}

// CreateLoanRequest represents the request payload for creating a loan
type CreateLoanRequest struct {
	PersonName  string          `json:"person_name" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Type        models.LoanType `json:"type" binding:"required,loan_type"`
	Description string          `json:"description" binding:"max=500"`
}

// UpdateLoanRequest represents a partial loan update. Omitted fields keep
// their current values; status changes go through the complete endpoint.
type UpdateLoanRequest struct {
	PersonName  *string          `json:"person_name" binding:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Type        *models.LoanType `json:"type" binding:"omitempty,loan_type"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// CreateRepaymentRequest represents the request payload for recording a repayment
type CreateRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note" binding:"max=500"`
}

// Routes mounts the loan and repayment endpoints on group.
func (h *LoanHandler) Routes(group *gin.RouterGroup) {
	loans := group.Group("/loans")
	loans.GET("", h.ListLoans)
	loans.POST("", h.CreateLoan)
	loans.GET("/:id", h.GetLoan)
	loans.PUT("/:id", h.UpdateLoan)
	loans.DELETE("/:id", h.DeleteLoan)
	loans.POST("/:id/complete", h.CompleteLoan)
	loans.GET("/:id/repayments", h.ListRepayments)
	loans.POST("/:id/repayments", h.CreateRepayment)

	repayments := group.Group("/repayments")
	repayments.GET("/:id", h.GetRepayment)
	repayments.DELETE("/:id", h.DeleteRepayment)
}

// ListLoans returns the user's loans
// @Summary     List loans
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "data: list of loans"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.loans.ListLoans(userID)})
}

// GetLoan returns one loan
// @Summary     Get a loan
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} models.Loan "Loan"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	loan, err := h.loans.GetLoan(userID, loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// CreateLoan records a new loan
// @Summary     Create a loan
// @Description Record money lent to or borrowed from a person. New loans are active.
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLoanRequest true "Loan details"
// @Success     201 {object} models.Loan "Loan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLoanRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	loan := h.loans.CreateLoan(userID, models.Loan{
		PersonName:  req.PersonName,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	})

	h.auditService.Log(userID, "CREATE", "loan", loan.ID, c.ClientIP(),
		map[string]interface{}{"person_name": req.PersonName, "amount": req.Amount.String(), "type": req.Type})
	c.JSON(http.StatusCreated, gin.H{"loan": loan})
}

// UpdateLoan merges the supplied fields into a loan
// @Summary     Update a loan
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Loan ID"
// @Param       request body UpdateLoanRequest true "Fields to change"
// @Success     200 {object} models.Loan "Loan updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /loans/{id} [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req UpdateLoanRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	loan, err := h.loans.UpdateLoan(userID, loanID, models.LoanPatch{
		PersonName:  req.PersonName,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE", "loan", loanID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// DeleteLoan removes a loan and its repayments
// @Summary     Delete a loan
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	if err := h.loans.DeleteLoan(userID, loanID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE", "loan", loanID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Loan deleted"})
}

// CompleteLoan marks a loan as settled
// @Summary     Complete a loan
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} models.Loan "Loan completed"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /loans/{id}/complete [post]
func (h *LoanHandler) CompleteLoan(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	loan, err := h.loans.CompleteLoan(userID, loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "COMPLETE", "loan", loanID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"loan": loan})
}

// ListRepayments returns a loan's repayments
// @Summary     List repayments of a loan
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Loan ID"
// @Success     200 {object} map[string]interface{} "data: repayments, total_repaid, remaining"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	loan, err := h.loans.GetLoan(userID, loanID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	repayments := h.loans.ListRepayments(userID, loanID)

	repaid := decimal.Zero
	for _, r := range repayments {
		repaid = repaid.Add(r.Amount)
	}
	c.JSON(http.StatusOK, gin.H{
		"data":         repayments,
		"total_repaid": repaid,
		"remaining":    loan.Amount.Sub(repaid),
	})
}

// CreateRepayment records a repayment against a loan
// @Summary     Record a repayment
// @Description Record a repayment. Date defaults to now.
// @Tags        loans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Loan ID"
// @Param       request body CreateRepaymentRequest true "Repayment details"
// @Success     201 {object} models.Repayment "Repayment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Loan not found"
// @Router      /loans/{id}/repayments [post]
func (h *LoanHandler) CreateRepayment(c *gin.Context) {
	userID, loanID, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req CreateRepaymentRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	r := models.Repayment{Amount: req.Amount, Note: req.Note}
	if req.Date != nil {
		r.Date = *req.Date
	}
	repayment, err := h.loans.CreateRepayment(userID, loanID, r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE", "repayment", repayment.ID, c.ClientIP(),
		map[string]interface{}{"loan_id": loanID, "amount": req.Amount.String()})
	c.JSON(http.StatusCreated, gin.H{"repayment": repayment})
}

// GetRepayment returns one repayment
// @Summary     Get a repayment
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Repayment ID"
// @Success     200 {object} models.Repayment "Repayment"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /repayments/{id} [get]
func (h *LoanHandler) GetRepayment(c *gin.Context) {
	userID, repaymentID, ok := h.userAndID(c)
	if !ok {
		return
	}

	repayment, err := h.loans.GetRepayment(userID, repaymentID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repayment": repayment})
}

// DeleteRepayment removes a repayment
// @Summary     Delete a repayment
// @Tags        loans
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Repayment ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /repayments/{id} [delete]
func (h *LoanHandler) DeleteRepayment(c *gin.Context) {
	userID, repaymentID, ok := h.userAndID(c)
	if !ok {
		return
	}

	if err := h.loans.DeleteRepayment(userID, repaymentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE", "repayment", repaymentID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Repayment deleted"})
}

// userAndID reads the caller and the :id path parameter, writing the error
// response itself when either is missing.
func (h *LoanHandler) userAndID(c *gin.Context) (uint, uint, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return 0, 0, false
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return 0, 0, false
	}
	return userID, id, true
}
