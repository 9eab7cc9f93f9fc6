package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PassportModel mirrors the 'passports' table. Tokens is stored as a JSON document.
type PassportModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Protocol    string            `gorm:"type:varchar(50);not null"`
	Password    string            `gorm:"type:varchar(255)"`
	AccessToken string            `gorm:"type:text"`
	Provider    string            `gorm:"type:varchar(50);not null;default:'local';index:idx_passports_provider_identifier"`
	Identifier  string            `gorm:"type:varchar(255);index:idx_passports_provider_identifier"`
	Tokens      map[string]string `gorm:"serializer:json"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	User        *UserModel        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PassportModel) TableName() string {
	return "passports"
}

// BeforeCreate assigns an ID so that every dialect gets the same behavior.
func (m *PassportModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
