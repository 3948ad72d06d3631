package upload

import "time"

// Upload is a resume file stored on the local filesystem.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	OriginalName string    `gorm:"column:original_name" json:"name"`
	FilePath     string    `gorm:"column:file_path" json:"-"` // relative to the upload dir
	MimeType     string    `gorm:"column:mime_type" json:"mimeType"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Upload) TableName() string { return "uploads" }
