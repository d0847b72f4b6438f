package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachMatchBack/internal/cache"
	"github.com/saeid-a/CoachMatchBack/internal/config"
	"github.com/saeid-a/CoachMatchBack/internal/handlers"
	"github.com/saeid-a/CoachMatchBack/internal/repository"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	slotws "github.com/saeid-a/CoachMatchBack/internal/websocket"
	"go.uber.org/zap"
)

// Dependencies are the process-wide collaborators built in main. Hub must be
// running; CoachCache may be nil when Redis is not configured.
type Dependencies struct {
	Logger     *zap.Logger
	Hub        *slotws.Hub
	CoachCache cache.CoachCache
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, deps Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	quizResponseRepo := repository.NewQuizResponseRepository(db)

	userService := services.NewUserService(userRepo)
	coachService := services.NewCoachService(coachRepo, deps.CoachCache, logger)
	slotService := services.NewSlotService(slotRepo, bookingRepo)
	bookingService := services.NewBookingService(db, bookingRepo, userRepo, deps.Hub, cfg.BookingLockTimeout, logger)
	quizService := services.NewQuizService(db, quizRepo, quizResponseRepo, userRepo, logger)

	healthHandler := handlers.NewHealthHandler(db, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	coachHandler := handlers.NewCoachHandler(coachService, logger)
	slotHandler := handlers.NewSlotHandler(slotService, logger)
	slotEventsHandler := handlers.NewSlotEventsHandler(deps.Hub)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)

	app.Get("/health", healthHandler.Health)
	app.Get("/health/db", healthHandler.Database)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Get("/:id/bookings", bookingHandler.ListUserBookings)

	quiz := api.Group("/quiz")
	quiz.Get("/schema", quizHandler.Schema)
	quiz.Post("/submit", quizHandler.Submit)
	quiz.Post("/answer", quizHandler.SaveAnswer)
	quiz.Get("/progress/:userId", quizHandler.Progress)

	coaches := api.Group("/coaches")
	coaches.Get("", coachHandler.ListCoaches)
	coaches.Get("/available", coachHandler.AvailableCoaches)
	coaches.Get("/:id", coachHandler.GetCoach)

	slots := api.Group("/slots")
	slots.Get("/available", slotHandler.AvailableSlots)
	slots.Use("/events", slotEventsHandler.Upgrade)
	slots.Get("/events", websocket.New(slotEventsHandler.Stream))
	slots.Get("/:id", slotHandler.GetSlot)

	bookings := api.Group("/bookings")
	bookings.Post("", bookingHandler.BookSlot)
	bookings.Post("/book-slot", bookingHandler.BookSlot)
	bookings.Get("/:id", bookingHandler.GetBooking)

	return registerDocsRoutes(app, cfg)
}
