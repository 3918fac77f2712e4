package service

import (
	"context"
	"fmt"
	"strings"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
)

type IClassService interface {
	Create(ctx context.Context, req *dto.CreateGymClassRequest) (*dto.CreateGymClassResponse, error)
	GetAll(ctx context.Context) (*dto.GetAllGymClassesResponse, error)
}

type classService struct {
	repo   contract.GymClassRepository
	events IEventService
	logger logger.ILogger
}

func NewClassService(repo contract.GymClassRepository, events IEventService, log logger.ILogger) IClassService {
	return &classService{
		repo:   repo,
		events: events,
		logger: log,
	}
}

// Create stores a validated class. Duplicate (class_id, instructor_name) pairs
// are rejected by the table's primary key and reported as a server error.
func (s *classService) Create(ctx context.Context, req *dto.CreateGymClassRequest) (*dto.CreateGymClassResponse, error) {
	class := &entity.GymClass{
		ClassId:        *req.ClassId,
		InstructorName: req.InstructorName,
		ClassName:      req.ClassName,
		StartTime:      NormalizeStartTime(req.StartTime),
		DurationMins:   req.DurationMins,
	}

	if err := s.repo.Create(ctx, class); err != nil {
		s.logger.Error("ClassService", "Failed to create class", map[string]interface{}{
			"class_id": class.ClassId,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.events.PublishClassCreated(ctx, class)

	return &dto.CreateGymClassResponse{
		Message: "Class created successfully",
		Class:   toGymClassResponse(class),
	}, nil
}

func (s *classService) GetAll(ctx context.Context) (*dto.GetAllGymClassesResponse, error) {
	classes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	res := &dto.GetAllGymClassesResponse{Classes: make([]dto.GymClassResponse, 0, len(classes))}
	for _, c := range classes {
		res.Classes = append(res.Classes, toGymClassResponse(c))
	}
	return res, nil
}

// NormalizeStartTime zero pads the hour ("9:05" becomes "09:05") so that
// start times sort correctly as text.
func NormalizeStartTime(s string) string {
	if i := strings.IndexByte(s, ':'); i == 1 {
		return "0" + s
	}
	return s
}

func toGymClassResponse(c *entity.GymClass) dto.GymClassResponse {
	return dto.GymClassResponse{
		ClassId:        c.ClassId,
		InstructorName: c.InstructorName,
		ClassName:      c.ClassName,
		StartTime:      c.StartTime,
		DurationMins:   c.DurationMins,
	}
}
