package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// CategoryUsage pairs a category with the number of movements booked
// against it.
type CategoryUsage struct {
	Category  model.Category
	Movements int64
}

// CreateCategory inserts a new category, refusing duplicates by name.
func CreateCategory(db *gorm.DB, c *model.Category) error {
	var existing model.Category
	err := db.Where("name = ?", c.Name).First(&existing).Error
	if err == nil {
		return fmt.Errorf("category %q: %w", c.Name, ErrDuplicate)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking category %q: %w", c.Name, err)
	}
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("creating category %q: %w", c.Name, err)
	}
	return nil
}

// CategoryByName fetches one category.
func CategoryByName(db *gorm.DB, name string) (*model.Category, error) {
	var c model.Category
	if err := db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CategoryByID fetches one category.
func CategoryByID(db *gorm.DB, id uint) (*model.Category, error) {
	var c model.Category
	if err := db.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Categories lists all categories with their movement counts, ordered
// by kind then name.
func Categories(db *gorm.DB) ([]CategoryUsage, error) {
	var cats []model.Category
	if err := db.Order("kind, name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	usage := make([]CategoryUsage, 0, len(cats))
	for _, c := range cats {
		var n int64
		if err := db.Model(&model.Movement{}).Where("category_id = ?", c.ID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("counting movements for category %q: %w", c.Name, err)
		}
		usage = append(usage, CategoryUsage{Category: c, Movements: n})
	}
	return usage, nil
}

// RenameCategory changes a category's name. Protected categories are
// immutable.
func RenameCategory(db *gorm.DB, id uint, newName string) error {
	c, err := CategoryByID(db, id)
	if err != nil {
		return err
	}
	if c.Protected() {
		return fmt.Errorf("category %q: %w", c.Name, ErrProtectedCategory)
	}

	var existing model.Category
	err = db.Where("name = ? AND id <> ?", newName, id).First(&existing).Error
	if err == nil {
		return fmt.Errorf("category %q: %w", newName, ErrDuplicate)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking category %q: %w", newName, err)
	}

	c.Name = newName
	if err := db.Save(c).Error; err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Protected categories and categories
// with movements are refused.
func DeleteCategory(db *gorm.DB, id uint) error {
	c, err := CategoryByID(db, id)
	if err != nil {
		return err
	}
	if c.Protected() {
		return fmt.Errorf("category %q: %w", c.Name, ErrProtectedCategory)
	}

	var n int64
	if err := db.Model(&model.Movement{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("counting movements for category %q: %w", c.Name, err)
	}
	if n > 0 {
		return fmt.Errorf("category %q has %d movement(s): %w", c.Name, n, ErrCategoryInUse)
	}

	if err := db.Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("deleting category %q: %w", c.Name, err)
	}
	return nil
}
