package entity

import "time"

// Template plantilla de documento de RR.HH. Sólo las publicadas sirven para generar.
type Template struct {
	ID          string
	Name        string
	Type        HRDocumentType
	Content     string
	IsPublished bool
	PublishedAt *time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
