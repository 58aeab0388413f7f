package service

// Service holds all business logic services.
type Service struct {
	Classification *ClassificationService
	Report         *ReportService
	Schedules      *ScheduleRegistry
}

// NewService creates a new Service with the given schedule registry and
// review threshold.
func NewService(schedules *ScheduleRegistry, confidenceThreshold float64) *Service {
	return &Service{
		Classification: NewClassificationService(confidenceThreshold),
		Report:         NewReportService(schedules),
		Schedules:      schedules,
	}
}
