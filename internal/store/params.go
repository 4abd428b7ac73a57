package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edificio-dev/edificio/internal/model"
)

// Param fetches one parameter by key.
func Param(db *gorm.DB, key string) (*model.Parameter, error) {
	var p model.Parameter
	if err := db.Where("key = ?", key).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ParamString returns a parameter's text value, or fallback if the key
// is absent or empty.
func ParamString(db *gorm.DB, key, fallback string) string {
	p, err := Param(db, key)
	if err != nil || p.Value == "" {
		return fallback
	}
	return p.Value
}

// ParamBool returns a boolean parameter, or fallback if absent.
func ParamBool(db *gorm.DB, key string, fallback bool) bool {
	p, err := Param(db, key)
	if err != nil {
		return fallback
	}
	return p.Bool()
}

// ParamInt returns a numeric parameter, or fallback if absent.
func ParamInt(db *gorm.DB, key string, fallback int) int {
	p, err := Param(db, key)
	if err != nil {
		return fallback
	}
	return p.Int()
}

// SetParam creates or updates a parameter.
func SetParam(db *gorm.DB, key, value string, typ model.ParameterType, description, group string) error {
	p, err := Param(db, key)
	if errors.Is(err, ErrNotFound) {
		p = &model.Parameter{
			Key:         key,
			Value:       value,
			Type:        typ,
			Description: description,
			Group:       group,
			Editable:    true,
		}
		if err := db.Create(p).Error; err != nil {
			return fmt.Errorf("creating parameter %q: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	p.Value = value
	p.Type = typ
	if description != "" {
		p.Description = description
	}
	p.UpdatedAt = time.Now()
	if err := db.Save(p).Error; err != nil {
		return fmt.Errorf("updating parameter %q: %w", key, err)
	}
	return nil
}

// Params lists parameters, optionally narrowed to one group.
func Params(db *gorm.DB, group string) ([]model.Parameter, error) {
	q := db.Order("param_group, key")
	if group != "" {
		q = q.Where("param_group = ?", group)
	}
	var params []model.Parameter
	if err := q.Find(&params).Error; err != nil {
		return nil, fmt.Errorf("listing parameters: %w", err)
	}
	return params, nil
}
