package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment is a building asset worth tracking: elevator, water pumps,
// extinguishers. Deactivated instead of deleted so history survives.
type Equipment struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	Location    string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:text"`
	InstalledAt *time.Time
	Active      bool `gorm:"not null"`

	Records []MaintenanceRecord `gorm:"foreignKey:EquipmentID"`
}

// MaintenanceRecord is one entry in an equipment's technical log.
// PhotoBefore/PhotoAfter hold evidence-store references, not paths.
type MaintenanceRecord struct {
	ID            uint            `gorm:"primaryKey"`
	Date          time.Time       `gorm:"not null"`
	Description   string          `gorm:"type:text;not null"`
	ReferenceCost decimal.Decimal `gorm:"type:decimal(12,2)"`
	PhotoBefore   string          `gorm:"type:varchar(200)"`
	PhotoAfter    string          `gorm:"type:varchar(200)"`

	EquipmentID uint `gorm:"not null;index"`

	// MovementID links the log entry to the expense that paid for the
	// work, once it exists.
	MovementID *uint
}
