package model

import (
	"strconv"
	"strings"
	"time"
)

// ParameterType tells how to interpret a parameter's stored text value.
type ParameterType string

const (
	ParamText    ParameterType = "text"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
	ParamDate    ParameterType = "date"
)

// Well-known parameter keys the ledger core reads.
const (
	ParamBuildingName          = "building_name"
	ParamBuildingAddress       = "building_address"
	ParamBuildingTaxID         = "building_tax_id"
	ParamDefaultIncomeAccount  = "default_income_account"
	ParamDefaultExpenseAccount = "default_expense_account"
	ParamCurrency              = "currency"
	ParamDueDay                = "due_day"
	ParamAutoEmail             = "auto_email_enabled"
	ParamAdminEmail            = "admin_email"
	ParamAdminPhone            = "admin_phone"
)

// Parameter is one row of the system's key-value configuration table.
// Values are stored as text and converted through the typed getters.
type Parameter struct {
	ID          uint          `gorm:"primaryKey"`
	Key         string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value       string        `gorm:"type:text"`
	Type        ParameterType `gorm:"type:varchar(10);not null;default:'text'"`
	Description string        `gorm:"type:varchar(255)"`
	Group       string        `gorm:"type:varchar(50);column:param_group"`
	Editable    bool          `gorm:"not null"`
	UpdatedAt   time.Time
}

// Bool interprets the value as a boolean. Accepts true/1/yes.
func (p *Parameter) Bool() bool {
	v := strings.ToLower(strings.TrimSpace(p.Value))
	return v == "true" || v == "1" || v == "yes"
}

// Float interprets the value as a number, zero on failure.
func (p *Parameter) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int interprets the value as an integer, zero on failure.
func (p *Parameter) Int() int {
	return int(p.Float())
}

// Date interprets the value as a YYYY-MM-DD date.
func (p *Parameter) Date() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(p.Value))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
