package domain

// EducationLevel is the highest education level declared during onboarding
type EducationLevel string

const (
	LowerSecondary EducationLevel = "lower-secondary" // Lower secondary school
	UpperSecondary EducationLevel = "upper-secondary" // Upper secondary school
	University     EducationLevel = "university"      // University
)

// EducationLevels lists every accepted education level in display order
var EducationLevels = []EducationLevel{LowerSecondary, UpperSecondary, University}

// Valid reports whether l is one of the known education levels
func (l EducationLevel) Valid() bool {
	for _, known := range EducationLevels {
		if l == known {
			return true
		}
	}
	return false
}

// Profile Model
type Profile struct {
	FullName       string         `json:"fullName"`       // Full name of the user
	BirthYear      int            `json:"birthYear"`      // Year of birth
	MonthlyIncome  float64        `json:"monthlyIncome"`  // Monthly income in currency units
	EducationLevel EducationLevel `json:"educationLevel"` // Declared education level
}
