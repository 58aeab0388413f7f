package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/ojimcy/taxsmart/internal/classifier"
	"github.com/ojimcy/taxsmart/internal/handlers/v1/review"
	"github.com/ojimcy/taxsmart/internal/handlers/v1/statement"
	"github.com/ojimcy/taxsmart/internal/handlers/v1/status"
	"github.com/ojimcy/taxsmart/internal/handlers/v1/tax"
	"github.com/ojimcy/taxsmart/internal/logging"
	"github.com/ojimcy/taxsmart/internal/operator"
	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage"
)

type Rest struct {
	Logger     *logrus.Logger
	Port       string
	Storage    *storage.Storage
	Operator   *operator.OperatorDelegator
	Service    *service.Service
	Classifier *classifier.Classifier
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("TaxSmart API", "1.0.0"))
	humaAPI.UseMiddleware(r.logDataMiddleware)

	statement.NewParseStatementHandler(r.Operator).Register(humaAPI)
	statement.NewClassifyStatementHandler(r.Storage.Sessions, r.Classifier, r.Service.Classification, r.Operator).Register(humaAPI)
	review.NewOverrideHandler(r.Service.Classification, r.Operator).Register(humaAPI)
	tax.NewCalculateTaxHandler(r.Service.Report, r.Storage.Sessions).Register(humaAPI)
	tax.NewQuickPITHandler(r.Service.Report).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// logDataMiddleware gives every operation a LogData and emits one summary
// line when the request finishes.
func (r *Rest) logDataMiddleware(ctx huma.Context, next func(huma.Context)) {
	logData := logging.NewLogData(r.Logger)

	stopTimer := logData.AddTiming("duration")
	next(huma.WithContext(ctx, logging.WithLogData(ctx.Context(), logData)))
	stopTimer()

	logData.AddData("path", ctx.URL().Path)
	logData.Log().Infof("Api.%v.Complete", ctx.Operation().OperationID)
}
