package main

import (
	bookinghandler "staybook/internal/bookings/handler"
	bookingrepo "staybook/internal/bookings/repository"
	bookingservice "staybook/internal/bookings/service"
	bookingvalidator "staybook/internal/bookings/validator"
	calendarhandler "staybook/internal/calendar/handler"
	calendarservice "staybook/internal/calendar/service"
	"staybook/internal/events"
	healthhandler "staybook/internal/health/handler"
	rentalhandler "staybook/internal/rentals/handler"
	rentalrepo "staybook/internal/rentals/repository"
	rentalservice "staybook/internal/rentals/service"
	rentalvalidator "staybook/internal/rentals/validator"
	"staybook/pkg/app"
	"staybook/pkg/config"
	kafkaconfig "staybook/pkg/kafka/config"
)

const ServiceName = "staybook"

func main() {
	cfg := config.Load(ServiceName)

	if cfg.StoreBackend == config.BackendMongo {
		cfg.SetMongo()
	}
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	rentalHandler, bookingHandler, calendarHandler := initHandlers(cfg, publisher)

	cfg.Log.Info("Starting server", "backend", cfg.StoreBackend)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		healthhandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		rentalHandler,
		bookingHandler,
		calendarHandler,
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, domain events will not be published")
		return events.NewNopPublisher()
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	publisher, err := events.NewKafkaPublisher(kafkaCfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}

	cfg.Log.Info("Kafka publisher initialized", "topic", events.Topic)
	return publisher
}

func initHandlers(cfg *config.Config, publisher events.Publisher) (
	*rentalhandler.RentalHandler,
	*bookinghandler.BookingHandler,
	*calendarhandler.CalendarHandler,
) {
	var (
		rentals  rentalrepo.RentalRepository
		bookings bookingrepo.BookingRepository
	)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		rentals = rentalrepo.NewMongoRentalRepository(cfg)
		locks := bookingrepo.NewBookingLockRepository(cfg)
		bookings = bookingrepo.NewMongoBookingRepository(cfg, rentals, locks)
	default:
		memRentals := rentalrepo.NewMemoryRentalRepository()
		rentals = memRentals
		bookings = bookingrepo.NewMemoryBookingRepository(memRentals)
	}

	rentalService := rentalservice.NewRentalService(
		rentals,
		bookings,
		rentalvalidator.NewRentalValidator(cfg.Log),
		publisher,
		cfg.Log,
	)
	bookingService := bookingservice.NewBookingService(
		bookings,
		rentals,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg.Log,
	)
	calendarService := calendarservice.NewCalendarService(bookings, rentals, cfg.Log)

	cfg.Log.Info("Services initialized", "backend", cfg.StoreBackend)

	return rentalhandler.NewRentalHandler(rentalService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		calendarhandler.NewCalendarHandler(calendarService, cfg.Log)
}
