package models

// Password is a stored credential. IsActualPassword distinguishes a real
// secret from a pattern or hint that only reminds the user of it.
type Password struct {
	Owned
	PersonName       string `json:"person_name" binding:"max=100"`
	ServiceName      string `json:"service_name" binding:"required,max=100"`
	Username         string `json:"username" binding:"max=100"`
	Secret           string `json:"secret" binding:"required,max=500"`
	IsActualPassword bool   `json:"is_actual_password"`
	Notes            string `json:"notes,omitempty" binding:"max=1000"`
}
