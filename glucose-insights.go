// @title Glucose-Insights API
// @version 0.1.0
// @description Daily glucose metrics and device calendars computed from the stored readings
// @license.name BSD 2-Clause "Simplified" License
// @BasePath /
// @accept json
// @produce json
// @schemes https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/api"
	"github.com/tidepool-org/glucose-insights/infrastructure"
	"github.com/tidepool-org/glucose-insights/usecase"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidepool-org/go-common"
	"github.com/tidepool-org/go-common/clients"
	"github.com/tidepool-org/go-common/clients/disc"
	"github.com/tidepool-org/go-common/clients/mongo"
	muxprom "gitlab.com/msvechla/mux-prometheus/pkg/middleware"
)

type (
	// GIConfig holds the configuration for the `glucose-insights` service
	GIConfig struct {
		clients.Config
		Service disc.ServiceListing `json:"service"`
		Mongo   mongo.Config        `json:"mongo"`
	}
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// newExportController nil when no export bucket is configured
func newExportController(logger *logrus.Logger, metrics usecase.DailyMetricsUseCase, resolver usecase.DateWindowResolver) *api.ExportController {
	bucket := os.Getenv("EXPORT_BUCKET")
	if bucket == "" {
		logger.Info("EXPORT_BUCKET not provided, export route disabled")
		return nil
	}
	region := os.Getenv("REGION")
	if region == "" {
		region = "eu-west-1"
		logger.Info("Using default aws region: ", region)
	}

	url := os.Getenv("S3_ENDPOINT_URL")
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if url != "" {
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               url,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})
	if url != "" {
		logger.Info("Using custom s3 endpoint: ", url)
	}

	awsconfig, err := config.LoadDefaultConfig(context.TODO(), config.WithEndpointResolverWithOptions(customResolver), config.WithRegion(region))
	if err != nil {
		logger.Fatal(err)
	}
	uploader, err := infrastructure.NewS3Uploader(s3.NewFromConfig(awsconfig), bucket)
	if err != nil {
		logger.Fatal(err)
	}
	exporter := usecase.NewExporter(logger, metrics, uploader)
	return api.NewExportController(logger, exporter, resolver)
}

func main() {
	var giconfig GIConfig
	if err := godotenv.Load(); err == nil {
		log.Println("environment loaded from .env")
	}
	logger := newLogger()

	if err := common.LoadEnvironmentConfig(
		[]string{"GLUCOSE_INSIGHTS_SERVICE", "GLUCOSE_INSIGHTS_ENV"},
		&giconfig,
	); err != nil {
		logger.Fatal("Problem loading config: ", err)
	}
	giconfig.Mongo.FromEnv()

	/*
	 * Instrumentation setup
	 */
	instrumentation := muxprom.NewCustomInstrumentation(true, "glucose", "insights", prometheus.DefBuckets, nil, prometheus.DefaultRegisterer)

	// the go-common store client only knows the standard logger
	storeLogger := log.New(logger.WriterLevel(logrus.InfoLevel), "mongo ", 0)
	readingsRepository, err := infrastructure.NewReadingsMongoRepository(&giconfig.Mongo, storeLogger)
	if err != nil {
		logger.Fatal(err)
	}
	defer readingsRepository.Close()
	readingsRepository.Start()

	rtr := mux.NewRouter()
	rtr.Use(instrumentation.Middleware)
	rtr.Path("/metrics").Handler(promhttp.Handler())

	resolver := usecase.NewDateWindowResolver(nil)
	metricsAggregator := usecase.NewMetricsAggregator(logger, readingsRepository, resolver)
	calendarAggregator := usecase.NewCalendarAggregator(logger, readingsRepository, resolver)
	userLookup := usecase.NewUserLookup(logger, readingsRepository)
	exportController := newExportController(logger, metricsAggregator, resolver)

	api := api.InitAPI(userLookup, metricsAggregator, calendarAggregator, exportController, readingsRepository, logger)
	api.SetHandlers("", rtr)

	// gzip/deflate when the client accepts it
	gzipHandler := handlers.CompressHandler(rtr)

	done := make(chan bool)
	server := common.NewServer(&http.Server{
		Addr:    giconfig.Service.GetPort(),
		Handler: gzipHandler,
	})

	var start func() error
	if giconfig.Service.Scheme == "https" {
		sslSpec := giconfig.Service.GetSSLSpec()
		start = func() error { return server.ListenAndServeTLS(sslSpec.CertFile, sslSpec.KeyFile) }
	} else {
		start = func() error { return server.ListenAndServe() }
	}
	if err := start(); err != nil {
		logger.Fatal(err)
	}
	logger.WithField("addr", giconfig.Service.GetPort()).Info("glucose-insights started")

	// Wait for SIGINT (Ctrl+C) or SIGTERM to stop the service
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-sigc
			readingsRepository.Close()
			server.Close()
			done <- true
		}
	}()

	<-done
}
