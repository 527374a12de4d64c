package domain

import "time"

// PaymentMethod selects whose payment records are authoritative for a family.
type PaymentMethod string

const (
	PaymentByFamily PaymentMethod = "family"
	PaymentByMember PaymentMethod = "member"
)

// Family groups several member Individuals under one household order. The
// family owns its members: removing an id from MemberIDs deletes the member.
type Family struct {
	ID             string        `json:"id"`
	FamilyName     string        `json:"familyName" validate:"required,max=120"`
	MemberIDs      []string      `json:"memberIds"`
	Phone          string        `json:"phone" validate:"required,max=32"`
	SecondaryPhone string        `json:"secondaryPhone,omitempty" validate:"max=32"`
	Telegram       string        `json:"telegram,omitempty" validate:"max=64"`
	Colors         []string      `json:"colors,omitempty" validate:"dive,max=32"`
	PaymentMethod  PaymentMethod `json:"paymentMethod" validate:"required,oneof=family member"`
	Payment        *Payment      `json:"payment,omitempty"`
	TilefImageURLs []string      `json:"tilefImageUrls,omitempty"`
	// TilefImageURL is the legacy single-image field.
	TilefImageURL string    `json:"tilefImageUrl,omitempty"`
	DeliveryDate  string    `json:"deliveryDate" validate:"required,datetime=2006-01-02"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StoredImages returns the effective tilef image list.
func (f Family) StoredImages() []string {
	return storedImages(f.TilefImageURLs, f.TilefImageURL)
}

// SetImages writes the tilef image list and clears the legacy field.
func (f *Family) SetImages(urls []string) {
	f.TilefImageURLs = urls
	f.TilefImageURL = ""
}

// FamilyDetail is a Family with its members resolved in MemberIDs order.
type FamilyDetail struct {
	Family
	Members        []Individual   `json:"members"`
	PaymentSummary PaymentSummary `json:"paymentSummary"`
}

// NewFamilyDetail orders members by the family's MemberIDs and computes the
// payment rollup according to PaymentMethod.
func NewFamilyDetail(f Family, members []Individual) FamilyDetail {
	byID := make(map[string]Individual, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	ordered := make([]Individual, 0, len(f.MemberIDs))
	for _, id := range f.MemberIDs {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}

	var summary PaymentSummary
	if f.PaymentMethod == PaymentByMember {
		for i := range ordered {
			summary.Add(ordered[i].Payment)
		}
	} else {
		summary.Add(f.Payment)
	}
	return FamilyDetail{Family: f, Members: ordered, PaymentSummary: summary}
}
