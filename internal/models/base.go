package models

// Base contains the identifier shared by every record.
type Base struct {
	ID uint `json:"id"`
}

// GetID returns the record identifier.
func (b *Base) GetID() uint { return b.ID }

// SetID sets the record identifier.
func (b *Base) SetID(id uint) { b.ID = id }

// Owned is embedded by every record that belongs directly to a user.
type Owned struct {
	Base
	UserID uint `json:"user_id"`
}

// ScopeID returns the owning user's ID.
func (o *Owned) ScopeID() uint { return o.UserID }

// SetScopeID sets the owning user's ID.
func (o *Owned) SetScopeID(id uint) { o.UserID = id }
