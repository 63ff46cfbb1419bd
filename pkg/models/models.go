package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

func init() {
	// balances and prices are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

type Profile struct {
	ID         int64           `json:"id" db:"id"`
	FirstName  string          `json:"firstName" db:"first_name"`
	LastName   string          `json:"lastName" db:"last_name"`
	Profession string          `json:"profession" db:"profession"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	Type       ProfileType     `json:"type" db:"type"`
}

func (p *Profile) IsClient() bool {
	return p.Type == ProfileTypeClient
}

type Contract struct {
	ID           int64          `json:"id" db:"id"`
	Terms        string         `json:"terms" db:"terms"`
	Status       ContractStatus `json:"status" db:"status"`
	ClientID     int64          `json:"clientId" db:"client_id"`
	ContractorID int64          `json:"contractorId" db:"contractor_id"`
}

// HasParty reports whether the profile is the client or the contractor of c.
func (c *Contract) HasParty(profileID int64) bool {
	return c.ClientID == profileID || c.ContractorID == profileID
}

type Job struct {
	ID          int64           `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Paid        bool            `json:"paid" db:"paid"`
	PaymentDate *time.Time      `json:"paymentDate" db:"payment_date"`
	ContractID  int64           `json:"contractId" db:"contract_id"`
}

// Timeframe bounds a report on job payment dates. Nil bounds are open.
type Timeframe struct {
	Start *time.Time
	End   *time.Time
}

type ProfessionEarnings struct {
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"total"`
}

type ClientPayments struct {
	ID       int64           `json:"id"`
	FullName string          `json:"fullName"`
	Paid     decimal.Decimal `json:"paid"`
}
