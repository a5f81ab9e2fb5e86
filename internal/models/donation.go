package models

// PaymentMethod is how a donation was received.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodQRIS     PaymentMethod = "qris"
	PaymentMethodOther    PaymentMethod = "other"
)

// Donation is an incoming transaction split across donation categories.
type Donation struct {
	Entry
	DonorName     string         `gorm:"size:100" json:"donor_name"`
	IsAnonymous   bool           `gorm:"not null;default:false" json:"is_anonymous"`
	PaymentMethod PaymentMethod  `gorm:"size:20;not null" json:"payment_method"`
	Items         []DonationItem `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE" json:"items"`
}

// DonationItem allocates part of a donation to one category.
type DonationItem struct {
	LineItem
	DonationID string `gorm:"type:uuid;not null;index" json:"donation_id"`
}

func (d *Donation) Header() *Entry { return &d.Entry }
func (d *Donation) ItemList() *[]DonationItem { return &d.Items }
func (i *DonationItem) Line() *LineItem { return &i.LineItem }
func (i *DonationItem) SetParentID(id string) { i.DonationID = id }
