package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/notify"
	"github.com/erazemk/servis/internal/queue"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	engine := &queue.Engine{DB: db, Notifier: &notify.LogGateway{DB: db}}

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	clientsHandler := &ClientsHandler{DB: db}
	ordersHandler := &OrdersHandler{DB: db}
	queueHandler := &QueueHandler{Engine: engine}
	notificationsHandler := &NotificationsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireTechnician := RequireRole(model.RoleTechnician)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Clients (all roles).
	mux.Handle("GET /api/clients", authMW(http.HandlerFunc(clientsHandler.List)))
	mux.Handle("POST /api/clients", authMW(http.HandlerFunc(clientsHandler.Create)))
	mux.Handle("GET /api/clients/{id}", authMW(http.HandlerFunc(clientsHandler.Get)))
	mux.Handle("PUT /api/clients/{id}", authMW(http.HandlerFunc(clientsHandler.Update)))
	mux.Handle("DELETE /api/clients/{id}", authMW(requireTechnician(http.HandlerFunc(clientsHandler.Delete))))

	// Service orders: read (all roles), workflow changes (technician+).
	mux.Handle("GET /api/orders", authMW(http.HandlerFunc(ordersHandler.List)))
	mux.Handle("POST /api/orders", authMW(http.HandlerFunc(ordersHandler.Create)))
	mux.Handle("GET /api/orders/{id}", authMW(http.HandlerFunc(ordersHandler.Get)))
	mux.Handle("PUT /api/orders/{id}", authMW(requireTechnician(http.HandlerFunc(ordersHandler.Update))))
	mux.Handle("PATCH /api/orders/{id}/status", authMW(requireTechnician(http.HandlerFunc(ordersHandler.UpdateStatus))))
	mux.Handle("DELETE /api/orders/{id}", authMW(requireAdmin(http.HandlerFunc(ordersHandler.Delete))))
	mux.Handle("PUT /api/orders/{id}/photo", authMW(http.HandlerFunc(ordersHandler.UploadPhoto)))
	mux.Handle("GET /api/orders/{id}/photo", authMW(http.HandlerFunc(ordersHandler.GetPhoto)))

	// Opening queue: enqueue and read (all roles), open (technician+),
	// delete (admin).
	mux.Handle("GET /api/queue", authMW(http.HandlerFunc(queueHandler.List)))
	mux.Handle("POST /api/queue", authMW(http.HandlerFunc(queueHandler.Enqueue)))
	mux.Handle("PATCH /api/queue/{id}/open", authMW(requireTechnician(http.HandlerFunc(queueHandler.Open))))
	mux.Handle("DELETE /api/queue/{id}", authMW(requireAdmin(http.HandlerFunc(queueHandler.Delete))))

	// Notification delivery log (technician+).
	mux.Handle("GET /api/notifications", authMW(requireTechnician(http.HandlerFunc(notificationsHandler.List))))

	return mux
}
