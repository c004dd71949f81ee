// File: internal/model/listing.go
package model

import "time"

// PropertyCategory is the kind of property being offered.
type PropertyCategory string

const (
	CategoryRumah     PropertyCategory = "RUMAH"
	CategoryApartemen PropertyCategory = "APARTEMEN"
	CategoryTanah     PropertyCategory = "TANAH"
	CategoryRuko      PropertyCategory = "RUKO"
	CategoryKos       PropertyCategory = "KOS"
	CategoryVilla     PropertyCategory = "VILLA"
)

// TransactionType distinguishes sale listings from rentals.
type TransactionType string

const (
	TransactionJual TransactionType = "JUAL"
	TransactionSewa TransactionType = "SEWA"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusActive ListingStatus = "ACTIVE"
	StatusSold   ListingStatus = "SOLD"
	// StatusDraft is accepted as input only and is stored as ACTIVE.
	StatusDraft ListingStatus = "DRAFT"
)

// Normalize collapses input-only and unknown states into a storable one.
func (s ListingStatus) Normalize() ListingStatus {
	if s == StatusSold {
		return StatusSold
	}
	return StatusActive
}

// Listing is a property offered by a seller. SellerName mirrors the seller's
// current username and is rewritten whenever that username changes.
type Listing struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           int64            `json:"price"`
	Category        PropertyCategory `json:"category"`
	TransactionType TransactionType  `json:"transactionType"`
	Status          ListingStatus    `json:"status"`
	Location        Location         `json:"location"`
	Address         string           `json:"address"`
	LandArea        int              `json:"landArea"`
	BuildingArea    int              `json:"buildingArea"`
	Bedrooms        int              `json:"bedrooms"`
	Bathrooms       int              `json:"bathrooms"`
	Certificate     string           `json:"certificate"`
	Images          []string         `json:"images"`
	SellerID        string           `json:"sellerId"`
	SellerName      string           `json:"sellerName"`
	IsPinned        bool             `json:"isPinned"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Clone returns a deep copy of the listing.
func (l Listing) Clone() Listing {
	l.Images = append([]string{}, l.Images...)
	return l
}

// ListingInput is the editable part of a listing, used for create and update.
type ListingInput struct {
	Title           string           `json:"title" binding:"required,min=5,max=200"`
	Description     string           `json:"description" binding:"required"`
	Price           int64            `json:"price" binding:"gte=0"`
	Category        PropertyCategory `json:"category" binding:"required,oneof=RUMAH APARTEMEN TANAH RUKO KOS VILLA"`
	TransactionType TransactionType  `json:"transactionType" binding:"required,oneof=JUAL SEWA"`
	Status          ListingStatus    `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE SOLD DRAFT"`
	Location        Location         `json:"location"`
	Address         string           `json:"address"`
	LandArea        int              `json:"landArea" binding:"gte=0"`
	BuildingArea    int              `json:"buildingArea" binding:"gte=0"`
	Bedrooms        int              `json:"bedrooms" binding:"gte=0"`
	Bathrooms       int              `json:"bathrooms" binding:"gte=0"`
	Certificate     string           `json:"certificate"`
	Images          []string         `json:"images"`
	// SellerID lets an admin post on behalf of another user.
	SellerID string `json:"sellerId,omitempty"`
}

// Apply copies the editable fields of in onto l. Seller and pin fields are untouched.
func (in ListingInput) Apply(l *Listing) {
	l.Title = in.Title
	l.Description = in.Description
	l.Price = in.Price
	l.Category = in.Category
	l.TransactionType = in.TransactionType
	if in.Status != "" {
		l.Status = in.Status.Normalize()
	}
	l.Location = in.Location
	l.Address = in.Address
	l.LandArea = in.LandArea
	l.BuildingArea = in.BuildingArea
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.Certificate = in.Certificate
	l.Images = append([]string{}, in.Images...)
}

// ListingReport is a user-submitted flag against a listing. Title and reporter
// name are copied at creation time and are not kept in sync afterwards.
type ListingReport struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	ListingTitle string    `json:"listingTitle"`
	ReporterID   string    `json:"reporterId"`
	ReporterName string    `json:"reporterName"`
	Reason       string    `json:"reason"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReportInput is the input for filing a report.
type ReportInput struct {
	ListingID string `json:"listingId" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=100"`
	Details   string `json:"details" binding:"max=2000"`
}
