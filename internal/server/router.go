package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"brewline/internal/auth"
	"brewline/internal/order"
	"brewline/internal/queue"
	"brewline/internal/shop"
)

func NewRouter(
	authMod *auth.Module,
	shopMod *shop.Module,
	orderMod *order.Module,
	queueMod *queue.Module,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authMod.Controller.HandleRegister)
		r.Post("/auth/login", authMod.Controller.HandleLogin)

		r.Get("/shops", shopMod.Controller.HandleListShops)
		r.Get("/shops/{shopId}", shopMod.Controller.HandleGetShop)
		r.Get("/shops/{shopId}/menu", shopMod.Controller.HandleGetMenu)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(authMod.Tokens))

			r.Post("/orders", orderMod.Controller.CreateOrder)
			r.Get("/orders", orderMod.Controller.ListOrders)
			r.Get("/orders/{orderId}", orderMod.Controller.GetOrder)
			r.Delete("/orders/{orderId}", orderMod.Controller.CancelOrder)
			r.Post("/orders/{orderId}/status", orderMod.Controller.UpdateOrderStatus)

			r.Post("/queue/join", queueMod.Controller.JoinQueue)
			r.Get("/queue/entries/{entryId}/position", queueMod.Controller.GetPosition)
			r.Delete("/queue/entries/{entryId}", queueMod.Controller.LeaveQueue)
			r.Post("/queue/entries/{entryId}/serve", queueMod.Controller.ServeCustomer)
			r.Post("/queue/entries/{entryId}/complete", queueMod.Controller.CompleteService)
			r.Get("/queue/shops/{shopId}", queueMod.Controller.GetShopQueue)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
