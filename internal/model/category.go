package model

// Category groups movements for reporting ("Ordinary Dues", "Water",
// "Elevator Maintenance", "Payroll"). Reference data; a category with
// movements cannot be deleted.
type Category struct {
	ID   uint         `gorm:"primaryKey"`
	Name string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind MovementKind `gorm:"type:varchar(10);not null"`
}

// Protected categories seeded at init. Both must exist exactly once and
// are exempt from rename and deletion: the charge generator requires
// CategoryOrdinaryDues and the transfer engine requires
// CategoryInternalTransfer.
const (
	CategoryOrdinaryDues     = "Ordinary Dues"
	CategoryInternalTransfer = "Internal Transfer"
)

// Protected reports whether the category is one of the seeded names the
// system depends on.
func (c *Category) Protected() bool {
	return c.Name == CategoryOrdinaryDues || c.Name == CategoryInternalTransfer
}
