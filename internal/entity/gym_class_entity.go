package entity

type GymClass struct {
	ClassId        int
	InstructorName string
	ClassName      string
	StartTime      string // HH:MM, zero padded
	DurationMins   int
}
