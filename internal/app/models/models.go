package models

// TrainingPath is one of the two fixed curricula a student can be enrolled
// under. It is part of the student identity key together with the name.
type TrainingPath string

const (
	TrainingPathPreschool     TrainingPath = "PRESCHOOL"
	TrainingPathInfantToddler TrainingPath = "INFANT_TODDLER"
)

// Valid reports whether p is one of the two known training paths
func (p TrainingPath) Valid() bool {
	return p == TrainingPathPreschool || p == TrainingPathInfantToddler
}

// DefaultLabel returns the human-readable label shown on certificates when
// the submission does not carry its own
func (p TrainingPath) DefaultLabel() string {
	switch p {
	case TrainingPathPreschool:
		return "Preschool"
	case TrainingPathInfantToddler:
		return "Infant & Toddler"
	default:
		return string(p)
	}
}
