package mapper

import (
	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/model"
)

type GymClassMapper struct{}

func NewGymClassMapper() *GymClassMapper {
	return &GymClassMapper{}
}

func (m *GymClassMapper) ToEntity(c *model.GymClass) *entity.GymClass {
	if c == nil {
		return nil
	}
	return &entity.GymClass{
		ClassId:        c.ClassId,
		InstructorName: c.InstructorName,
		ClassName:      c.ClassName,
		StartTime:      c.StartTime,
		DurationMins:   c.DurationMins,
	}
}

func (m *GymClassMapper) ToModel(c *entity.GymClass) *model.GymClass {
	if c == nil {
		return nil
	}
	return &model.GymClass{
		ClassId:        c.ClassId,
		InstructorName: c.InstructorName,
		ClassName:      c.ClassName,
		StartTime:      c.StartTime,
		DurationMins:   c.DurationMins,
	}
}
