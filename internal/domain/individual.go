package domain

import "time"

// Sex selects which measurement subset of ClothDetails applies.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Individual is a single person's order: measurements, payment and delivery.
// Family members are Individuals with IsFamilyMember set.
type Individual struct {
	ID             string       `json:"id"`
	IsFamilyMember bool         `json:"isFamilyMember"`
	FirstName      string       `json:"firstName" validate:"required,max=100"`
	LastName       string       `json:"lastName" validate:"required,max=100"`
	Sex            Sex          `json:"sex" validate:"required,oneof=Male Female"`
	Age            *int         `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Phone          string       `json:"phone,omitempty" validate:"max=32"`
	SecondaryPhone string       `json:"secondaryPhone,omitempty" validate:"max=32"`
	Telegram       string       `json:"telegram,omitempty" validate:"max=64"`
	Instagram      string       `json:"instagram,omitempty" validate:"max=64"`
	ClothDetails   ClothDetails `json:"clothDetails"`
	Payment        *Payment     `json:"payment,omitempty"`
	DeliveryDate   string       `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// FullName joins first and last name.
func (i Individual) FullName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// ClothDetails holds measurements common to both sexes plus the
// sex-specific subset. Only the subset matching Individual.Sex may be set.
type ClothDetails struct {
	ShirtLength float64 `json:"shirtLength,omitempty" validate:"min=0"`
	Shoulder    float64 `json:"shoulder,omitempty" validate:"min=0"`
	Waist       float64 `json:"waist,omitempty" validate:"min=0"`
	Wrist       float64 `json:"wrist,omitempty" validate:"min=0"`
	Sleeve      float64 `json:"sleeve,omitempty" validate:"min=0"`

	Female *FemaleMeasurements `json:"female,omitempty"`
	Male   *MaleMeasurements   `json:"male,omitempty"`

	Colors []string `json:"colors,omitempty" validate:"dive,max=32"`
	Images []string `json:"images,omitempty"`
	// ImageURL is the legacy single-image field. It is cleared whenever
	// Images is written.
	ImageURL string `json:"imageUrl,omitempty"`
}

type FemaleMeasurements struct {
	DressLength  float64 `json:"dressLength,omitempty" validate:"min=0"`
	SleeveLength float64 `json:"sleeveLength,omitempty" validate:"min=0"`
	Bust         float64 `json:"bust,omitempty" validate:"min=0"`
	UnderBust    float64 `json:"underBust,omitempty" validate:"min=0"`
	BustPoint    float64 `json:"bustPoint,omitempty" validate:"min=0"`
	SleeveStyle  string  `json:"sleeveStyle,omitempty" validate:"omitempty,oneof=Long Short Sleeveless"`
	WaistStyle   string  `json:"waistStyle,omitempty" validate:"omitempty,oneof=Fitted Loose Belted"`
}

type MaleMeasurements struct {
	Chest       float64 `json:"chest,omitempty" validate:"min=0"`
	Neck        float64 `json:"neck,omitempty" validate:"min=0"`
	ClothType   string  `json:"clothType,omitempty" validate:"omitempty,oneof=Shirt Suit Traditional"`
	SleeveStyle string  `json:"sleeveStyle,omitempty" validate:"omitempty,oneof=Long Short"`
	Netela      string  `json:"netela,omitempty" validate:"omitempty,oneof=Yes No"`
}

// StoredImages returns the effective image list, reading the legacy
// single-image field when the list is empty.
func (c ClothDetails) StoredImages() []string {
	return storedImages(c.Images, c.ImageURL)
}

// SetImages writes the image list and clears the legacy field.
func (c *ClothDetails) SetImages(urls []string) {
	c.Images = urls
	c.ImageURL = ""
}

func storedImages(list []string, legacy string) []string {
	if len(list) > 0 {
		out := make([]string, len(list))
		copy(out, list)
		return out
	}
	if legacy != "" {
		return []string{legacy}
	}
	return nil
}
