package models

// CardDetails holds the fields shared by credit and debit cards.
type CardDetails struct {
	CardName   string   `json:"card_name" binding:"required,max=100"`
	CardNumber string   `json:"card_number" binding:"required,numeric,min=12,max=19"`
	Expiry     string   `json:"expiry" binding:"required,card_expiry"`
	CVV        string   `json:"cvv" binding:"omitempty,numeric,min=3,max=4"`
	Network    string   `json:"network" binding:"omitempty,card_network"`
	Issuer     string   `json:"issuer" binding:"max=100"`
	Tags       []string `json:"tags" binding:"max=20,dive,max=50"`
}

// CreditCard is a stored credit card.
type CreditCard struct {
	Owned
	CardDetails
}

// DebitCard is a stored debit card.
type DebitCard struct {
	Owned
	CardDetails
}
