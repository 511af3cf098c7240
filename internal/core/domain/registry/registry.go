package registry

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusRegistered Status = "registered"
	StatusError      Status = "error"
)

// Record is a registry extraction stored for a customer lead.
type Record struct {
	ID                 int64      `json:"id" db:"id"`
	ExtractedAt        *time.Time `json:"extracted_at" db:"extracted_at"`
	CustomerName       string     `json:"customer_name" db:"customer_name"`
	PostalCode         *string    `json:"postal_code" db:"postal_code"`
	Prefecture         *string    `json:"prefecture" db:"prefecture"`
	CurrentAddress     *string    `json:"current_address" db:"current_address"`
	InheritanceAddress *string    `json:"inheritance_address" db:"inheritance_address"`
	PhoneNumber        *string    `json:"phone_number" db:"phone_number"`
	Status             Status     `json:"status" db:"status"`
	PDFPath            *string    `json:"pdf_path" db:"pdf_path"`
	ExtractedPDFPath   *string    `json:"extracted_pdf_path" db:"extracted_pdf_path"`
	CreatedBy          int64      `json:"created_by" db:"created_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}
