package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

// User is a platform account. Super admins carry no assigned store and act
// across tenants; every other role is pinned to its assigned store.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Username        *string        `gorm:"column:username;uniqueIndex"`
	Email           string         `gorm:"column:email;not null;uniqueIndex"`
	Phone           string         `gorm:"column:phone;not null;default:''"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	Role            enums.UserRole `gorm:"column:role;type:user_role;not null;default:'technician'"`
	AssignedStoreID *uuid.UUID     `gorm:"column:assigned_store_id;type:uuid"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
