package model

import "time"

// SystemConfig holds key/value configuration rows carried alongside the
// domain tables (locale, default limits). Values are written by the seeder.
type SystemConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	KeyName     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key_name"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (SystemConfig) TableName() string {
	return "system_config"
}
