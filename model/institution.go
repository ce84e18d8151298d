package model

import "time"

// Row status for soft-deletable entities.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Institution types.
const (
	InstitutionUniversity = "universidad"
	InstitutionCollege    = "colegio"
	InstitutionSchool     = "escuela"
	InstitutionInstitute  = "instituto"
)

// Seats assumed per room kind when deriving total capacity.
const (
	SeatsPerClassroom  = 30
	SeatsPerLaboratory = 20
)

// Institution represents a school, college, institute or university whose
// infrastructure and maintenance work the system tracks.
type Institution struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	Type              string    `gorm:"type:varchar(50);not null;index:idx_institutions_type" json:"type"`
	Acronym           string    `gorm:"type:varchar(20)" json:"acronym"`
	Location          string    `gorm:"type:text;not null" json:"location"`
	Address           string    `gorm:"type:text" json:"address"`
	Phone             string    `gorm:"type:varchar(20)" json:"phone"`
	Email             string    `gorm:"type:varchar(100)" json:"email"`
	Website           string    `gorm:"type:varchar(255)" json:"website"`
	BuildingsCount    int       `gorm:"default:0" json:"buildings_count"`
	ClassroomsCount   int       `gorm:"default:0" json:"classrooms_count"`
	LaboratoriesCount int       `gorm:"default:0" json:"laboratories_count"`
	TotalCapacity     int       `gorm:"default:0" json:"total_capacity"`
	Status            string    `gorm:"type:varchar(20);default:'active';index:idx_institutions_status" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	CreatedBy         *uint     `json:"created_by,omitempty"`

	Infrastructures    []Infrastructure    `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"infrastructures,omitempty"`
	MaintenanceRecords []MaintenanceRecord `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TotalCapacityFor derives the seat capacity of an institution from its room
// counts. The stored total_capacity column is always recomputed with this
// formula on create and update; client-supplied values are ignored.
func TotalCapacityFor(classrooms, laboratories int) int {
	return classrooms*SeatsPerClassroom + laboratories*SeatsPerLaboratory
}

// ValidInstitutionType reports whether t is one of the known types.
func ValidInstitutionType(t string) bool {
	switch t {
	case InstitutionUniversity, InstitutionCollege, InstitutionSchool, InstitutionInstitute:
		return true
	}
	return false
}
