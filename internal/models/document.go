package models

// Document holds metadata for a file stored in external object storage.
// The blob itself never passes through this service; FileURL points at
// the storage provider. A document is attached to a vehicle, an
// investor, or both.
type Document struct {
	Base
	Name        string  `gorm:"not null" json:"name"`
	FileURL     string  `gorm:"not null" json:"file_url"`
	ContentType string  `json:"content_type"`
	VehicleID   *string `gorm:"type:uuid;index" json:"vehicle_id,omitempty"`
	InvestorID  *string `gorm:"type:uuid;index" json:"investor_id,omitempty"`
	UploadedBy  string  `gorm:"type:uuid;not null" json:"uploaded_by"`

	Vehicle  *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Investor *User    `gorm:"foreignKey:InvestorID" json:"investor,omitempty"`
}
