package database

import (
	"github.com/shopspring/decimal"
)

// Logical table names shared by every record store backend.
const (
	TableUsers       = "users"
	TablePayments    = "payments"
	TableLawyers     = "lawyers"
	TableCourtVisits = "court_visits"
)

// CaseUser is a claimant account keyed by its case number.
//
// Password is only read from legacy JSON exports during import; it is never
// stored or written back out. PasswordHash holds a bcrypt hash.
type CaseUser struct {
	ID           RecordID        `json:"id" gorm:"primaryKey"`
	CaseNumber   string          `json:"case_number" gorm:"uniqueIndex;not null"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name" gorm:"not null"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:numeric"`
	PhotoURL     string          `json:"photo_url,omitempty"`
	PasswordHash string          `json:"password_hash,omitempty"`
	Password     string          `json:"password,omitempty" gorm:"-"`
}

type Payment struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	CaseNumber  string          `json:"case_number" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric"`
	PaymentDate Date            `json:"payment_date"`
	Status      string          `json:"status"`
	ReferenceID string          `json:"reference_id"`
	Description string          `json:"description,omitempty"`
}

// Lawyer is the legal representative assigned to a case.
type Lawyer struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	CaseNumber string `json:"case_number" gorm:"index;not null"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	BarNumber  string `json:"bar_number,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

type CourtVisit struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	CaseNumber string `json:"case_number" gorm:"not null"`
	Date       Date   `json:"date"`
	Type       string `json:"type,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	Location   string `json:"location,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
}

func (CaseUser) TableName() string {
	return TableUsers
}

func (Payment) TableName() string {
	return TablePayments
}

func (Lawyer) TableName() string {
	return TableLawyers
}

func (CourtVisit) TableName() string {
	return TableCourtVisits
}

// Profile is the client-facing view of a CaseUser; it never carries
// password material.
type Profile struct {
	ID          string          `json:"id"`
	CaseNumber  string          `json:"case_number"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PhotoURL    string          `json:"photo_url,omitempty"`
}

func (u CaseUser) Profile() Profile {
	return Profile{
		ID:          u.ID.String(),
		CaseNumber:  u.CaseNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Status:      u.Status,
		TotalAmount: u.TotalAmount,
		PhotoURL:    u.PhotoURL,
	}
}
