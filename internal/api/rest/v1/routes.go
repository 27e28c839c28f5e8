package v1

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/ratelimit"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	userService users.UserService,
	customerService customers.CustomerService,
	orderService orders.OrderService,
	portalService orders.PortalService,
	ticketService tickets.TicketService,
	dashboardService orders.DashboardService,
	tokenManager *token.Manager,
	limiter *ratelimit.Limiter,
	db *gorm.DB) {

	v1 := r.Group(BasePath) // lookup in version file

	authed := RequireAuth(tokenManager, userService)

	// Health and auth routes
	healthHandler := NewHealthHandler(db)
	v1.GET("/health", healthHandler.Check)

	authHandler := NewAuthHandler(userService, tokenManager, limiter)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authed, authHandler.Logout)
	v1.POST("/auth/password", authed, authHandler.ChangePassword)
	v1.GET("/auth/set-password/:uid/:token", authHandler.CheckSetPassword)
	v1.POST("/auth/set-password/:uid/:token", authHandler.SetPassword)

	// Staff panel routes
	staff := v1.Group("", authed, RequireStaff())

	dashboardHandler := NewDashboardHandler(dashboardService)
	staff.GET("/dashboard/stats", dashboardHandler.Stats)

	orderHandler := NewOrderHandler(orderService)
	staff.GET("/orders", orderHandler.List)
	staff.POST("/orders", orderHandler.Create)
	staff.GET("/orders/:id", orderHandler.Get)
	staff.PUT("/orders/:id", orderHandler.Update)
	staff.PATCH("/orders/:id/status", orderHandler.SetRowStatus)
	staff.PATCH("/orders/:id/promised-date", orderHandler.SetRowPromisedDate)
	staff.POST("/orders/:id/package", orderHandler.ApplyPackage)
	staff.POST("/orders/:id/photos", orderHandler.UploadPhotos)
	staff.GET("/orders/:id/photos", orderHandler.ListPhotos)
	staff.GET("/orders/:id/photos/:photoId", orderHandler.DownloadPhoto)
	staff.DELETE("/orders/:id/photos/:photoId", orderHandler.DeletePhoto)
	staff.POST("/orders/:id/invite", orderHandler.Invite)
	staff.POST("/orders/:id/sms", orderHandler.SendSMS)
	staff.POST("/orders/:id/protocol-email", orderHandler.SendProtocolEmail)
	staff.GET("/orders/:id/protocol.pdf", orderHandler.ProtocolPDF)

	customerHandler := NewCustomerHandler(customerService)
	staff.POST("/customers", customerHandler.Register)
	staff.GET("/customers/:id", customerHandler.Get)
	staff.PUT("/customers/:id", customerHandler.Update)

	ticketHandler := NewTicketHandler(ticketService)
	staff.GET("/tickets", ticketHandler.List)
	staff.GET("/tickets/:id", ticketHandler.Get)
	staff.POST("/tickets/:id/reply", ticketHandler.Reply)
	staff.PATCH("/tickets/:id/status", ticketHandler.SetStatus)

	// Customer portal routes
	portal := v1.Group("/portal", authed, RequireCustomer())

	portalHandler := NewPortalHandler(customerService, portalService, ticketService)
	portal.GET("/profile", portalHandler.Profile)
	portal.PUT("/profile", portalHandler.UpdateProfile)
	portal.GET("/bikes", portalHandler.Overview)
	portal.GET("/bikes/:id", portalHandler.BikeDetail)
	portal.GET("/loyalty", portalHandler.Loyalty)
	portal.GET("/tickets", portalHandler.ListTickets)
	portal.POST("/tickets", portalHandler.CreateTicket)
	portal.GET("/tickets/:id", portalHandler.GetTicket)
	portal.POST("/tickets/:id/reply", portalHandler.ReplyTicket)
}
