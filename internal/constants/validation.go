package constants

// Jury appointment bounds.
const (
	MinJuryMembers = 2
	MaxJuryMembers = 3
)
