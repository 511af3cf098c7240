package lookup

import "errors"

type PostalCodeResult struct {
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Street     string `json:"street"`
	Success    bool   `json:"success"`
}

type PhoneNumberResult struct {
	PhoneNumber string `json:"phone_number"`
	Type        string `json:"type"`
	Carrier     string `json:"carrier"`
	IsValid     bool   `json:"is_valid"`
	Success     bool   `json:"success"`
}

type RegistryLoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegistrySearchCriteria requires at least one of Name or Address.
type RegistrySearchCriteria struct {
	Name    string `json:"name,omitempty" query:"name"`
	Address string `json:"address,omitempty" query:"address"`
}

type RegistrySearchHit struct {
	ID               string `json:"id"`
	PropertyType     string `json:"property_type"`
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	RegistrationDate string `json:"registration_date"`
}

type RegistrySearchResult struct {
	Success bool                `json:"success"`
	Results []RegistrySearchHit `json:"results"`
}

type PropertyDetails struct {
	LandArea         string `json:"land_area"`
	BuildingArea     string `json:"building_area"`
	ConstructionType string `json:"construction_type"`
	YearBuilt        string `json:"year_built"`
}

type OwnershipRecord struct {
	Owner        string `json:"owner"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
	TransferType string `json:"transfer_type"`
}

type RegistryDetails struct {
	Success          bool              `json:"success"`
	RegistryID       string            `json:"registry_id"`
	PropertyType     string            `json:"property_type"`
	Address          string            `json:"address"`
	Owner            string            `json:"owner"`
	RegistrationDate string            `json:"registration_date"`
	PropertyDetails  PropertyDetails   `json:"property_details"`
	OwnershipHistory []OwnershipRecord `json:"ownership_history"`
}

var (
	ErrInvalidPostalCode  = errors.New("invalid postal code format")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrMissingCriteria    = errors.New("name or address search criterion required")
)
