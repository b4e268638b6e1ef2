package domain

// Bilingual is text that must exist in both site languages.
type Bilingual struct {
	Ar string `json:"ar" validate:"required"`
	En string `json:"en" validate:"required"`
}

// Localized is optional text in both site languages.
type Localized struct {
	Ar string `json:"ar,omitempty"`
	En string `json:"en,omitempty"`
}
