package implementation

import (
	"context"
	"fmt"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/mapper"
	"gym-agent-be/internal/model"
	"gym-agent-be/internal/repository/contract"

	"gorm.io/gorm"
)

// DefaultGymClasses is the timetable a fresh database starts with.
var DefaultGymClasses = []entity.GymClass{
	{ClassId: 1, InstructorName: "Sara Jiménez", ClassName: "Yoga Flow", StartTime: "09:00", DurationMins: 60},
	{ClassId: 2, InstructorName: "Miguel Pérez", ClassName: "HIIT", StartTime: "10:30", DurationMins: 45},
	{ClassId: 3, InstructorName: "Emma Díaz", ClassName: "Spinning", StartTime: "17:00", DurationMins: 45},
	{ClassId: 4, InstructorName: "Jaime Wilson", ClassName: "Pilates", StartTime: "18:30", DurationMins: 60},
}

type GymClassRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GymClassMapper
}

func NewGymClassRepository(db *gorm.DB) contract.GymClassRepository {
	return &GymClassRepositoryImpl{
		db:     db,
		mapper: mapper.NewGymClassMapper(),
	}
}

func (r *GymClassRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.GymClass{}); err != nil {
		return fmt.Errorf("migrate gym_classes: %w", err)
	}
	return nil
}

func (r *GymClassRepositoryImpl) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.GymClass{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		models := make([]*model.GymClass, len(DefaultGymClasses))
		for i := range DefaultGymClasses {
			models[i] = r.mapper.ToModel(&DefaultGymClasses[i])
		}
		if err := tx.Create(&models).Error; err != nil {
			return err
		}
		inserted = len(models)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *GymClassRepositoryImpl) Create(ctx context.Context, class *entity.GymClass) error {
	m := r.mapper.ToModel(class)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*class = *r.mapper.ToEntity(m)
	return nil
}

func (r *GymClassRepositoryImpl) FindAll(ctx context.Context) ([]*entity.GymClass, error) {
	var models []*model.GymClass
	if err := r.db.WithContext(ctx).Order("start_time, class_id").Find(&models).Error; err != nil {
		return nil, err
	}

	classes := make([]*entity.GymClass, len(models))
	for i, m := range models {
		classes[i] = r.mapper.ToEntity(m)
	}
	return classes, nil
}

func (r *GymClassRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GymClass{}).Count(&count).Error
	return count, err
}
