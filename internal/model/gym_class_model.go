package model

// GymClass is one timetable row. A class id can be taught by several
// instructors, so the key spans both columns.
type GymClass struct {
	ClassId        int    `gorm:"primaryKey;autoIncrement:false"`
	InstructorName string `gorm:"type:varchar(32);primaryKey"`
	ClassName      string `gorm:"type:varchar(32);not null"`
	StartTime      string `gorm:"type:varchar(5);not null"`
	DurationMins   int    `gorm:"not null"`
}

func (GymClass) TableName() string {
	return "gym_classes"
}
