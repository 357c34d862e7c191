package models

import "time"

// DocumentSequenceModel is the counter row for one (series, year) pair
type DocumentSequenceModel struct {
	Series    string    `gorm:"type:varchar(8);primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	LastValue int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
