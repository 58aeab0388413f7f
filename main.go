package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ojimcy/taxsmart/api"
	"github.com/ojimcy/taxsmart/internal/classifier"
	"github.com/ojimcy/taxsmart/internal/config"
	"github.com/ojimcy/taxsmart/internal/logging"
	"github.com/ojimcy/taxsmart/internal/operator"
	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage"
)

const operatorWorkers = 4

func main() {
	logger := logging.SetupLogging()
	logrus.Info("taxsmart starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	schedules, err := loadSchedules(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("service.LoadSchedules")
		return
	}

	dbStorage := storage.NewStorage(envConfig)
	svc := service.NewService(schedules, envConfig.ConfidenceThreshold)

	delegator := operator.NewOperatorDelegator(dbStorage, logger, operatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	var aiTier classifier.BatchClassifier
	if envConfig.GeminiAPIKey != "" {
		gemini, err := classifier.NewGeminiClassifier(context.Background(), envConfig.GeminiAPIKey, logger)
		if err != nil {
			logger.WithError(err).Warn("classifier.NewGeminiClassifier, continuing with rules only")
		} else {
			aiTier = gemini
		}
	}

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:     logger,
			Port:       envConfig.Port,
			Storage:    dbStorage,
			Operator:   delegator,
			Service:    svc,
			Classifier: classifier.New(aiTier, logger),
		}
		httpRest.Serve()
	}()

	wg.Wait()
}

func loadSchedules(envConfig *config.Config) (*service.ScheduleRegistry, error) {
	if envConfig.SchedulesFile != "" {
		return service.NewScheduleRegistryFromFile(envConfig.SchedulesFile)
	}
	return service.NewScheduleRegistry()
}
