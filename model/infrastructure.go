package model

import "time"

// Condition states for a facility.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
	ConditionCritical  = "critical"
)

// Infrastructure represents a building or facility owned by an institution.
type Infrastructure struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	InstitutionID    uint      `gorm:"not null;index:idx_infrastructures_institution" json:"institution_id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Type             string    `gorm:"type:varchar(100);not null" json:"type"`
	Location         string    `gorm:"type:text" json:"location"`
	Capacity         *int      `json:"capacity,omitempty"`
	AreaM2           *float64  `gorm:"column:area_m2" json:"area_m2,omitempty"`
	ConstructionYear *int      `json:"construction_year,omitempty"`
	ConditionStatus  string    `gorm:"type:varchar(50);default:'good'" json:"condition_status"`
	Description      string    `gorm:"type:text" json:"description"`
	Status           string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Institution        *Institution        `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	MaintenanceRecords []MaintenanceRecord `gorm:"foreignKey:InfrastructureID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the historical table name.
func (Infrastructure) TableName() string {
	return "infrastructures"
}
