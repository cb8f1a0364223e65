package templates

import "time"

// Template is a firm's reusable letter template. Sections is the ordered list
// of section names the generated letter should contain.
type Template struct {
	ID               string
	FirmID           string
	Name             string
	LetterheadText   string
	OpeningParagraph string
	ClosingParagraph string
	Sections         []string
	IsDefault        bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
