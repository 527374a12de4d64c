package individual

import (
	"strings"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/validation"
)

// ClothInput carries measurements and colors. Image references are never
// accepted here; they come from uploads and the keep-list.
type ClothInput struct {
	ShirtLength float64                    `json:"shirtLength"`
	Shoulder    float64                    `json:"shoulder"`
	Waist       float64                    `json:"waist"`
	Wrist       float64                    `json:"wrist"`
	Sleeve      float64                    `json:"sleeve"`
	Female      *domain.FemaleMeasurements `json:"female"`
	Male        *domain.MaleMeasurements   `json:"male"`
	Colors      []string                   `json:"colors"`
}

// Input is the full attribute set of an Individual order, used for
// creation and for family member entries.
type Input struct {
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Sex            domain.Sex      `json:"sex"`
	Age            *int            `json:"age"`
	Phone          string          `json:"phone"`
	SecondaryPhone string          `json:"secondaryPhone"`
	Telegram       string          `json:"telegram"`
	Instagram      string          `json:"instagram"`
	ClothDetails   ClothInput      `json:"clothDetails"`
	Payment        *domain.Payment `json:"payment"`
	DeliveryDate   string          `json:"deliveryDate"`
	Notes          string          `json:"notes"`
	// UploadID links images uploaded beforehand under this correlation id.
	UploadID string `json:"uploadId"`
}

// ApplyTo overwrites every attribute of dst with the input's values,
// keeping identity, ownership and image fields.
func (in Input) ApplyTo(dst *domain.Individual) {
	dst.FirstName = strings.TrimSpace(in.FirstName)
	dst.LastName = strings.TrimSpace(in.LastName)
	dst.Sex = domain.Sex(strings.TrimSpace(string(in.Sex)))
	dst.Age = in.Age
	dst.Phone = strings.TrimSpace(in.Phone)
	dst.SecondaryPhone = strings.TrimSpace(in.SecondaryPhone)
	dst.Telegram = strings.TrimSpace(in.Telegram)
	dst.Instagram = strings.TrimSpace(in.Instagram)
	in.ClothDetails.applyTo(&dst.ClothDetails)
	dst.Payment = in.Payment
	dst.DeliveryDate = strings.TrimSpace(in.DeliveryDate)
	dst.Notes = strings.TrimSpace(in.Notes)
}

func (c ClothInput) applyTo(dst *domain.ClothDetails) {
	dst.ShirtLength = c.ShirtLength
	dst.Shoulder = c.Shoulder
	dst.Waist = c.Waist
	dst.Wrist = c.Wrist
	dst.Sleeve = c.Sleeve
	dst.Female = c.Female
	dst.Male = c.Male
	dst.Colors = trimAll(c.Colors)
}

// UpdateInput is a partial update: nil fields are left unchanged.
type UpdateInput struct {
	FirstName      *string         `json:"firstName"`
	LastName       *string         `json:"lastName"`
	Sex            *domain.Sex     `json:"sex"`
	Age            *int            `json:"age"`
	Phone          *string         `json:"phone"`
	SecondaryPhone *string         `json:"secondaryPhone"`
	Telegram       *string         `json:"telegram"`
	Instagram      *string         `json:"instagram"`
	ClothDetails   *ClothInput     `json:"clothDetails"`
	Payment        *domain.Payment `json:"payment"`
	DeliveryDate   *string         `json:"deliveryDate"`
	Notes          *string         `json:"notes"`
	// ExistingImageURLs lists stored images to keep; nil keeps them all.
	ExistingImageURLs *[]string `json:"existingImageUrls"`
	UploadID          string    `json:"uploadId"`
}

// ApplyTo overlays the non-nil fields onto dst.
func (in UpdateInput) ApplyTo(dst *domain.Individual) {
	setString(&dst.FirstName, in.FirstName)
	setString(&dst.LastName, in.LastName)
	if in.Sex != nil {
		dst.Sex = domain.Sex(strings.TrimSpace(string(*in.Sex)))
	}
	if in.Age != nil {
		dst.Age = in.Age
	}
	setString(&dst.Phone, in.Phone)
	setString(&dst.SecondaryPhone, in.SecondaryPhone)
	setString(&dst.Telegram, in.Telegram)
	setString(&dst.Instagram, in.Instagram)
	if in.ClothDetails != nil {
		in.ClothDetails.applyTo(&dst.ClothDetails)
	}
	if in.Payment != nil {
		dst.Payment = in.Payment
	}
	setString(&dst.DeliveryDate, in.DeliveryDate)
	setString(&dst.Notes, in.Notes)
}

// Validate checks the struct tags and that only the measurement subset
// matching the sex is present.
func Validate(in domain.Individual) *domain.ValidationError {
	verr := validation.Struct(in)
	if verr == nil {
		verr = &domain.ValidationError{}
	}
	switch in.Sex {
	case domain.SexFemale:
		if in.ClothDetails.Male != nil {
			verr.Add("clothDetails.male", "not allowed when sex is Female")
		}
	case domain.SexMale:
		if in.ClothDetails.Female != nil {
			verr.Add("clothDetails.female", "not allowed when sex is Male")
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
