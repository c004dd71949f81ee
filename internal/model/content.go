package model

import "time"

// LedgerType is the kind of wallet movement recorded in the ledger.
type LedgerType string

const (
	LedgerTopUp LedgerType = "TOPUP"
	LedgerSpend LedgerType = "SPEND"
)

// Transaction is an append-only ledger entry. The balance on User.Credits is
// maintained alongside it and is not recomputed from the ledger.
type Transaction struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Type        LedgerType `json:"type"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
}

// BlogPost is an editorial article.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogPostInput is the editable part of a blog post.
type BlogPostInput struct {
	Title    string `json:"title" binding:"required,min=3,max=200"`
	Slug     string `json:"slug,omitempty"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Author   string `json:"author"`
}

// PropertyRequest is a buyer's "looking for" post.
type PropertyRequest struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId,omitempty"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Category        PropertyCategory `json:"category"`
	TransactionType TransactionType  `json:"transactionType"`
	Location        Location         `json:"location"`
	Budget          int64            `json:"budget"`
	Description     string           `json:"description"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// PropertyRequestInput is the input for posting a request.
type PropertyRequestInput struct {
	Name            string           `json:"name" binding:"required,max=100"`
	Phone           string           `json:"phone" binding:"required,max=30"`
	Category        PropertyCategory `json:"category" binding:"required,oneof=RUMAH APARTEMEN TANAH RUKO KOS VILLA"`
	TransactionType TransactionType  `json:"transactionType" binding:"required,oneof=JUAL SEWA"`
	Location        Location         `json:"location"`
	Budget          int64            `json:"budget" binding:"gte=0"`
	Description     string           `json:"description" binding:"max=2000"`
}

// AppSettings is the singleton site configuration.
type AppSettings struct {
	SiteName           string `json:"siteName"`
	ContactEmail       string `json:"contactEmail"`
	ContactPhone       string `json:"contactPhone"`
	WhatsAppNumber     string `json:"whatsappNumber"`
	Address            string `json:"address"`
	PinCost            int64  `json:"pinCost"`
	EnableRegistration bool   `json:"enableRegistration"`
	EnableKYC          bool   `json:"enableKyc"`
	MaintenanceMode    bool   `json:"maintenanceMode"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() AppSettings {
	return AppSettings{
		SiteName:           "Vueltra Property",
		ContactEmail:       "support@vueltra.id",
		ContactPhone:       "+62 21 5000 1234",
		WhatsAppNumber:     "6281200001234",
		Address:            "Jl. Jend. Sudirman Kav. 52, Jakarta Selatan",
		PinCost:            50000,
		EnableRegistration: true,
		EnableKYC:          true,
		MaintenanceMode:    false,
	}
}
