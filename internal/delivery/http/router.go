package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevent/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", controllers.Health)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("PATCH /events/{eventID}", eventController.UpdateEvent)

	// Bookings
	mux.HandleFunc("GET /events/{eventID}/bookings", bookingController.ListEventBookings)
	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)
	mux.HandleFunc("PATCH /bookings/{bookingID}", bookingController.UpdateBooking)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
