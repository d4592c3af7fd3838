package models

import "gorm.io/gorm"

type UserStory struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;index"`
	Text      string `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
