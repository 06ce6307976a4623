package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/config"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/controller"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	circuitbreaker "github.com/LeonEnneken/Leitstellen-Backend/internal/infrastructure/circuit-breaker"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/infrastructure/message-queue/kafka"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/infrastructure/scheduler"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/infrastructure/tracing"
	localmiddleware "github.com/LeonEnneken/Leitstellen-Backend/internal/middleware"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/realtime"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/repository"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/keylock"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo

	metrics       *echo.Echo
	hub           *realtime.Hub
	scheduler     gocron.Scheduler
	traceProvider *sdktrace.TracerProvider
	kafkaProducer *kafkago.Conn
}

// Start wires the service and blocks until the HTTP server stops.
func (app *App) Start() error {
	ctx := log.Logger.WithContext(context.Background())

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	} else {
		app.traceProvider = traceProvider
	}

	kafkaProducer, err := kafka.CreateKafkaProducer(app.Config)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to kafka, events will not be published")
	}
	app.kafkaProducer = kafkaProducer

	if err := repository.EnsureIndexes(ctx, app.DB); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	userRepo := repository.CreateUserRepository(app.DB)
	memberRepo := repository.CreateMemberRepository(app.DB)
	controlCenterRepo := repository.CreateControlCenterRepository(app.DB)
	timeTrackingRepo := repository.CreateTimeTrackingRepository(app.DB)
	organisationRepo := repository.CreateOrganisationRepository(app.DB)
	auditLogRepo := repository.CreateAuditLogRepository(app.DB)

	cb := circuitbreaker.CreateCircuitBreaker(tracing.ServiceName)
	eventPublisher := service.CreateKafkaEventPublisher(kafkaProducer, cb)
	audit := service.CreateAuditLogger(auditLogRepo, eventPublisher)
	notifier := service.CreateReportNotifier(eventPublisher, app.Config.SMTPConfig)

	occupancy := service.CreateOccupancy(controlCenterRepo, audit, keylock.New())
	ledger := service.CreateTimeTrackingLedger(timeTrackingRepo, userRepo, memberRepo)

	statusSvc := service.CreateStatusService(userRepo, occupancy, ledger, audit)
	controlCenterSvc := service.CreateControlCenterService(controlCenterRepo, userRepo, organisationRepo, occupancy, ledger, audit)
	statisticsSvc := service.CreateStatisticsService(userRepo, memberRepo, controlCenterRepo, organisationRepo, ledger)
	dailyResetSvc := service.CreateDailyResetService(userRepo, occupancy, ledger, notifier)
	userSvc := service.CreateUserService(userRepo, memberRepo, organisationRepo, audit)

	if _, err := controlCenterSvc.EnsureAFKControlCenter(ctx); err != nil {
		return fmt.Errorf("provisioning AFK control center: %w", err)
	}

	app.hub = realtime.CreateHub(app.Config.JWTSecret, userSvc)
	broadcastSvc := service.CreateBroadcastService(statisticsSvc, app.hub)
	app.hub.OnRequestDetails(broadcastSvc.PublishControlCenterDetails)

	app.scheduler, err = scheduler.CreateScheduler(app.Config.ScheduleConfig, broadcastSvc.Tick, func(ctx context.Context) {
		log.Info().Str("component", "DailyReset").Msg("daily reset started")
		summary, err := dailyResetSvc.Run(ctx)
		if err != nil {
			log.Error().Err(err).Str("component", "DailyReset").Msg("")
		}
		log.Info().Str("component", "DailyReset").Int("users", summary.Total()).Msg("daily reset finished")
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	app.Server = e

	tracer := app.traceProviderOrDefault().Tracer(tracing.ServiceName)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				span.RecordError(err)
			}
			if c.Response().Status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(c.Response().Status))
			}
			return err
		}
	})

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.GET("/ws", echo.WrapHandler(otelhttp.NewHandler(app.hub, "websocket")))

	g := e.Group("/api/v1", localmiddleware.Logger)
	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	secured := g.Group("", localmiddleware.Auth(app.Config.JWTSecret, userSvc))
	controller.CreateUserController(secured.Group("/user"), statusSvc, userSvc)
	controller.CreateControlCenterController(secured.Group("/control-center"), controlCenterSvc, statisticsSvc)
	controller.CreateStatisticsController(secured.Group("/statistics"), statisticsSvc)
	controller.CreateAdminController(secured.Group("/admin", localmiddleware.RequireRole(domain.RoleAdministrator)), app.hub, dailyResetSvc)

	app.scheduler.Start()

	if err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) traceProviderOrDefault() *sdktrace.TracerProvider {
	if app.traceProvider == nil {
		app.traceProvider = sdktrace.NewTracerProvider()
	}
	return app.traceProvider
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error
	if app.scheduler != nil {
		errList = append(errList, app.scheduler.Shutdown())
	}
	if app.hub != nil {
		app.hub.Close()
	}
	if app.Server != nil {
		errList = append(errList, app.Server.Shutdown(ctx))
	}
	if app.metrics != nil {
		errList = append(errList, app.metrics.Shutdown(ctx))
	}
	if app.kafkaProducer != nil {
		errList = append(errList, app.kafkaProducer.Close())
	}
	if app.traceProvider != nil {
		errList = append(errList, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errList...)
}
