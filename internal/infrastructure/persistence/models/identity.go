package models

import (
	"time"

	"github.com/vetclinic/backend/internal/domain/identity"
)

// UserModel is the persistence model for a staff account
type UserModel struct {
	AggregateModel
	Username     string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName     string     `gorm:"type:varchar(200)"`
	Phone        string     `gorm:"type:varchar(30)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(30);not null"`
	Permissions  []string   `gorm:"type:text;serializer:json"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		FullName:          m.FullName,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Role:              identity.Role(m.Role),
		Permissions:       m.Permissions,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Permissions:  u.Permissions,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
