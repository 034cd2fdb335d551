package models

// BankAccount is a stored bank account with its access credentials.
type BankAccount struct {
	Owned
	BankName           string   `json:"bank_name" binding:"required,max=100"`
	AccountNumber      string   `json:"account_number" binding:"required,numeric,min=6,max=20"`
	AccountType        string   `json:"account_type" binding:"omitempty,account_type"`
	CustomerID         string   `json:"customer_id,omitempty" binding:"max=50"`
	IFSCCode           string   `json:"ifsc_code" binding:"required,ifsc"`
	NetBankingPassword string   `json:"net_banking_password,omitempty"`
	MPIN               string   `json:"mpin,omitempty" binding:"omitempty,numeric,min=4,max=6"`
	Tags               []string `json:"tags" binding:"max=20,dive,max=50"`
}
