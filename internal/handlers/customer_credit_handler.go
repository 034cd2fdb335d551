package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisaab/internal/models"
	"hisaab/internal/services"
)

// CreditSettler marks customer credits as paid.
type CreditSettler interface {
	MarkCustomerCreditPaid(userID, creditID uint) (*models.CustomerCredit, error)
}

// CustomerCreditHandler serves the customer credit endpoints beyond plain CRUD.
type CustomerCreditHandler struct {
	credits      CreditSettler
	auditService services.AuditServicer
}

// NewCustomerCreditHandler creates a new CustomerCreditHandler.
func NewCustomerCreditHandler(credits CreditSettler, auditService services.AuditServicer) *CustomerCreditHandler {
	return &CustomerCreditHandler{credits: credits, auditService: auditService}
}

// MarkPaid settles a customer credit
// @Summary     Mark a customer credit as paid
// @Description Set the status to paid and stamp the paid date. Repeating the call re-stamps the date.
// @Tags        customer-credits
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Customer credit ID"
// @Success     200 {object} models.CustomerCredit "Credit settled"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /customer-credits/{id}/paid [post]
func (h *CustomerCreditHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	credit, err := h.credits.MarkCustomerCreditPaid(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_PAID", "customer_credit", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"customer_credit": credit})
}
