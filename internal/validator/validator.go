// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hisaab/internal/models"
)

var (
	ifscRegex   = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

var cardNetworks = map[string]bool{
	"Visa": true, "Mastercard": true, "RuPay": true, "American Express": true,
	"Diners Club": true, "Discover": true, "JCB": true, "Maestro": true,
}

var bankAccountTypes = map[string]bool{
	"Savings": true, "Current": true, "Salary": true, "Fixed Deposit": true,
	"Recurring Deposit": true, "NRE": true, "NRO": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerOn(v)
	}
}

// RecordValidator validates structs against their binding tags without going
// through gin's global engine. Restores use it to re-check decoded records.
type RecordValidator struct {
	v *validator.Validate
}

// NewRecordValidator returns a RecordValidator with every custom rule registered.
func NewRecordValidator() *RecordValidator {
	v := validator.New()
	v.SetTagName("binding")
	registerOn(v)
	return &RecordValidator{v: v}
}

// ValidateStruct validates obj, which may be a struct or a pointer to one.
func (r *RecordValidator) ValidateStruct(obj any) error {
	return r.v.Struct(obj)
}

func registerOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("loan_type", validateLoanType)
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)
	_ = v.RegisterValidation("payer_source", validatePayerSource)
	_ = v.RegisterValidation("document_type", validateDocumentType)
	_ = v.RegisterValidation("ifsc", validateIFSC)
	_ = v.RegisterValidation("card_expiry", validateCardExpiry)
	_ = v.RegisterValidation("card_network", validateCardNetwork)
	_ = v.RegisterValidation("account_type", validateAccountType)

	v.RegisterStructValidation(validateExpense, models.Expense{})
	v.RegisterStructValidation(validateDocument, models.Document{})
}

// decimalValue lets numeric tags such as gt=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateLoanType(fl validator.FieldLevel) bool {
	switch models.LoanType(fl.Field().String()) {
	case models.LoanTypeGiven, models.LoanTypeReceived:
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch models.PaymentMethod(fl.Field().String()) {
	case models.PaymentCash, models.PaymentCard, models.PaymentUPI, models.PaymentBankTransfer:
		return true
	}
	return false
}

func validatePayerSource(fl validator.FieldLevel) bool {
	switch models.PayerSource(fl.Field().String()) {
	case models.PayerSelf, models.PayerBusiness, models.PayerOther:
		return true
	}
	return false
}

func validateDocumentType(fl validator.FieldLevel) bool {
	switch models.DocumentType(fl.Field().String()) {
	case models.DocumentAadhaar, models.DocumentPAN, models.DocumentPassport,
		models.DocumentDrivingLicense, models.DocumentVoterID, models.DocumentOther:
		return true
	}
	return false
}

func validateIFSC(fl validator.FieldLevel) bool {
	return ifscRegex.MatchString(fl.Field().String())
}

// validateCardExpiry accepts MM/YY.
func validateCardExpiry(fl validator.FieldLevel) bool {
	return expiryRegex.MatchString(fl.Field().String())
}

func validateCardNetwork(fl validator.FieldLevel) bool {
	return cardNetworks[fl.Field().String()]
}

func validateAccountType(fl validator.FieldLevel) bool {
	return bankAccountTypes[fl.Field().String()]
}

// validateExpense enforces the payer rules. A shared expense must list its
// shares and they must add up to the expense amount; otherwise a payer source
// and payment method are required.
func validateExpense(sl validator.StructLevel) {
	e := sl.Current().Interface().(models.Expense)

	if !e.IsShared {
		if e.PaidBy == "" {
			sl.ReportError(e.PaidBy, "paid_by", "PaidBy", "required", "")
		}
		if e.PaymentMethod == "" {
			sl.ReportError(e.PaymentMethod, "payment_method", "PaymentMethod", "required", "")
		}
		if e.PaidBy == models.PayerOther && e.PayerName == "" {
			sl.ReportError(e.PayerName, "payer_name", "PayerName", "required_if", "PaidBy Other")
		}
		return
	}

	if len(e.Shares) == 0 {
		sl.ReportError(e.Shares, "shares", "Shares", "min", "1")
		return
	}

	sum := decimal.Zero
	for _, share := range e.Shares {
		sum = sum.Add(share.Amount)
		if share.PayerType == models.PayerOther && share.PayerName == "" {
			sl.ReportError(share.PayerName, "payer_name", "PayerName", "required_if", "PayerType Other")
		}
	}
	if !sum.Equal(e.Amount) {
		sl.ReportError(e.Shares, "shares", "Shares", "sum_eq_amount", e.Amount.String())
	}
}

func validateDocument(sl validator.StructLevel) {
	d := sl.Current().Interface().(models.Document)
	if d.DocumentType == models.DocumentOther && d.CustomType == "" {
		sl.ReportError(d.CustomType, "custom_type", "CustomType", "required_if", "DocumentType Other")
	}
}
