package model

import "time"

// Tables an attachment may reference. The pair (related_table, related_id) is
// a tagged reference validated against this list on upload; there is no
// database-level foreign key across the referenced tables.
const (
	RelatedInstitutions       = "institutions"
	RelatedInfrastructures    = "infrastructures"
	RelatedMaintenanceRecords = "maintenance_records"
)

// Attachment is the metadata row for an uploaded file stored on disk.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RelatedTable string    `gorm:"type:varchar(50);not null;index:idx_attachments_related,priority:1" json:"related_table"`
	RelatedID    uint      `gorm:"not null;index:idx_attachments_related,priority:2" json:"related_id"`
	Filename     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"filename"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	FilePath     string    `gorm:"type:text;not null" json:"-"`
	MimeType     string    `gorm:"type:varchar(100)" json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UploadedBy   *uint     `json:"uploaded_by,omitempty"`
}

// ValidRelatedTable reports whether t is an attachable entity table.
func ValidRelatedTable(t string) bool {
	switch t {
	case RelatedInstitutions, RelatedInfrastructures, RelatedMaintenanceRecords:
		return true
	}
	return false
}
