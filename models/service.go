package models

// ServiceCategory enumerates the kinds of laundry work a provider can list.
type ServiceCategory string

const (
	CategoryWashAndFold ServiceCategory = "wash-and-fold"
	CategoryDryCleaning ServiceCategory = "dry-cleaning"
	CategoryIroning     ServiceCategory = "ironing"
	CategoryWashAndIron ServiceCategory = "wash-and-iron"
	CategorySpecialty   ServiceCategory = "specialty"
)

// CategoryAll disables category filtering in discovery.
const CategoryAll = "all"

var ServiceCategories = []ServiceCategory{
	CategoryWashAndFold,
	CategoryDryCleaning,
	CategoryIroning,
	CategoryWashAndIron,
	CategorySpecialty,
}

func (c ServiceCategory) Valid() bool {
	for _, known := range ServiceCategories {
		if c == known {
			return true
		}
	}
	return false
}

type PriceUnit string

const (
	PerKg   PriceUnit = "per-kg"
	PerItem PriceUnit = "per-item"
	PerLoad PriceUnit = "per-load"
)

// Service is one priced offering of a provider.
type Service struct {
	ID             string          `bson:"id" json:"id"`
	ProviderID     string          `bson:"providerId" json:"providerId"`
	Name           string          `bson:"name" json:"name"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	Category       ServiceCategory `bson:"category" json:"category"`
	Price          float64         `bson:"price" json:"price"`
	PriceUnit      PriceUnit       `bson:"priceUnit" json:"priceUnit"`
	TurnaroundTime int             `bson:"turnaroundTime" json:"turnaroundTime"` // hours
	Active         bool            `bson:"active" json:"active"`
}

// ServiceInput is the payload for adding a service to a provider's catalogue.
type ServiceInput struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	Category       string  `json:"category" validate:"required,oneof=wash-and-fold dry-cleaning ironing wash-and-iron specialty"`
	Price          float64 `json:"price" validate:"gt=0"`
	PriceUnit      string  `json:"priceUnit" validate:"required,oneof=per-kg per-item per-load"`
	TurnaroundTime int     `json:"turnaroundTime" validate:"gt=0"`
}
