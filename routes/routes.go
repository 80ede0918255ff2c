package routes

import (
	"fmt"
	"net/http"

	"aventra/itinerary"
	"aventra/middleware"
	"aventra/ratelim"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func AddItineraryRoutes(router *httprouter.Router, h *itinerary.Handler, auth *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/itineraries", rateLimiter.Limit(auth.Authenticate(h.Save)))         //Save a generated itinerary
	router.GET("/api/itineraries", auth.Authenticate(h.List))                             //Fetch the caller's itineraries
	router.GET("/api/itineraries/all/:id", auth.Authenticate(h.Get))                      //Fetch a single itinerary
	router.GET("/api/itineraries/all/:id/pdf", auth.Authenticate(h.ExportPDF))            //Download as PDF
	router.DELETE("/api/itineraries/:id", rateLimiter.Limit(auth.Authenticate(h.Delete))) //Delete an itinerary
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddUtilityRoutes(router *httprouter.Router, gatherer prometheus.Gatherer) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
