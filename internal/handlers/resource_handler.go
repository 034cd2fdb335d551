package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisaab/internal/services"
)

// RecordStore is the per-user CRUD surface shared by every uniform record
// kind. The store's collections implement it.
type RecordStore[T any] interface {
	List(userID uint) []T
	Get(userID, id uint) (*T, error)
	Create(userID uint, rec T) *T
	Update(userID, id uint, rec T) (*T, error)
	Delete(userID, id uint) error
	Kind() string
}

// ResourceHandler serves list/get/create/replace/delete for one record kind.
// Request bodies bind straight into the record type; its binding tags are
// the validation rules. Any id or user_id in the body is ignored.
type ResourceHandler[T any] struct {
	records      RecordStore[T]
	auditService services.AuditServicer
	key          string
}

// NewResourceHandler creates a ResourceHandler. key names the record in
// single-record responses, e.g. {"credit_card": {...}}.
func NewResourceHandler[T any](records RecordStore[T], auditService services.AuditServicer, key string) *ResourceHandler[T] {
	return &ResourceHandler[T]{records: records, auditService: auditService, key: key}
}

// Routes mounts the handler's endpoints on group.
func (h *ResourceHandler[T]) Routes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List returns all of the user's records of this kind
// @Summary     List records
// @Description List the authenticated user's records of one kind
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "Record kind" Enums(credit-cards, debit-cards, bank-accounts, passwords, customer-credits, expenses, daily-sales, documents)
// @Success     200 {object} map[string]interface{} "data: list of records"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /{kind} [get]
func (h *ResourceHandler[T]) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.records.List(userID)})
}

// Get returns one record
// @Summary     Get a record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "Record kind"
// @Param       id   path int    true "Record ID"
// @Success     200 {object} map[string]interface{} "The record, keyed by kind"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /{kind}/{id} [get]
func (h *ResourceHandler[T]) Get(c *gin.Context) {
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

	rec, err := h.records.Get(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{h.key: rec})
}

// Create stores a new record
// @Summary     Create a record
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string                 true "Record kind"
// @Param       request body map[string]interface{} true "Record fields"
// @Success     201 {object} map[string]interface{} "The created record, keyed by kind"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /{kind} [post]
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var rec T
	if err := bindJSON(c, &rec); err != nil {
		respondWithError(c, err)
		return
	}

	created := h.records.Create(userID, rec)
	h.auditService.Log(userID, "CREATE", h.records.Kind(), recordID(created), c.ClientIP(), nil)
	c.JSON(http.StatusCreated, gin.H{h.key: created})
}

// Update replaces a record
// @Summary     Replace a record
// @Description Replace every field of a record. Omitted fields are cleared.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string                 true "Record kind"
// @Param       id      path int                    true "Record ID"
// @Param       request body map[string]interface{} true "Record fields"
// @Success     200 {object} map[string]interface{} "The updated record, keyed by kind"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /{kind}/{id} [put]
func (h *ResourceHandler[T]) Update(c *gin.Context) {
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

	var rec T
	if err := bindJSON(c, &rec); err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.records.Update(userID, id, rec)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.auditService.Log(userID, "UPDATE", h.records.Kind(), id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{h.key: updated})
}

// Delete removes a record
// @Summary     Delete a record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "Record kind"
// @Param       id   path int    true "Record ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /{kind}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
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

	if err := h.records.Delete(userID, id); err != nil {
		respondWithError(c, err)
		return
	}
	h.auditService.Log(userID, "DELETE", h.records.Kind(), id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// recordID reads the ID of a created record for audit logging.
func recordID(rec any) uint {
	if r, ok := rec.(interface{ GetID() uint }); ok {
		return r.GetID()
	}
	return 0
}
