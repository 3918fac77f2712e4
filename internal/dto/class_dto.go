package dto

type CreateGymClassRequest struct {
	ClassId        *int   `json:"class_id" validate:"required"`
	InstructorName string `json:"instructor_name" validate:"required,max=32"`
	ClassName      string `json:"class_name" validate:"required,max=32"`
	StartTime      string `json:"start_time" validate:"required,hhmm"`
	DurationMins   int    `json:"duration_mins" validate:"gt=0,lte=180"`
}

type GymClassResponse struct {
	ClassId        int    `json:"class_id"`
	InstructorName string `json:"instructor_name"`
	ClassName      string `json:"class_name"`
	StartTime      string `json:"start_time"`
	DurationMins   int    `json:"duration_mins"`
}

type CreateGymClassResponse struct {
	Message string           `json:"message"`
	Class   GymClassResponse `json:"class"`
}

type GetAllGymClassesResponse struct {
	Classes []GymClassResponse `json:"classes"`
}
