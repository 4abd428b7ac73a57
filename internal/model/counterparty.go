package model

// CounterpartyTag groups external payees for reporting.
type CounterpartyTag string

const (
	TagUtilities   CounterpartyTag = "utilities"
	TagMaintenance CounterpartyTag = "maintenance"
	TagPayroll     CounterpartyTag = "payroll"
	TagOther       CounterpartyTag = "other"
)

// Counterparty is an external payee: a vendor (power company) or an
// employee (janitor). Referenced only by expense movements.
type Counterparty struct {
	ID    uint            `gorm:"primaryKey"`
	Name  string          `gorm:"type:varchar(100);not null"`
	TaxID string          `gorm:"type:varchar(20)"`
	Phone string          `gorm:"type:varchar(20)"`
	Tag   CounterpartyTag `gorm:"type:varchar(20);not null;default:'other'"`
}
