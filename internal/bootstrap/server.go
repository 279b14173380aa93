package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mperera91/hotelbooking/api"
	"github.com/mperera91/hotelbooking/config"
	"github.com/mperera91/hotelbooking/internal/service/booking"
	"github.com/mperera91/hotelbooking/internal/service/rooms"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, roomSvc rooms.RoomUseCase, bookingSvc booking.BookingUseCase) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	api.NewRoomHandler(roomSvc).Register(v1.Group("/rooms"))
	api.NewBookingHandler(bookingSvc).Register(v1.Group("/bookings"))
	api.NewQuoteHandler(bookingSvc).Register(v1.Group("/quotes"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger-spec", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger-spec/bookings.swagger.json"),
		)))
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
