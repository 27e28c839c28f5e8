package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/pkg/strutil"
)

// PortalHandler defines the interface for the customer self-service
// operations
type PortalHandler interface {
	Profile(ctx *gin.Context)
	UpdateProfile(ctx *gin.Context)
	Overview(ctx *gin.Context)
	BikeDetail(ctx *gin.Context)
	Loyalty(ctx *gin.Context)
	ListTickets(ctx *gin.Context)
	CreateTicket(ctx *gin.Context)
	GetTicket(ctx *gin.Context)
	ReplyTicket(ctx *gin.Context)
}

type portalHandler struct {
	customerService customers.CustomerService
	portalService   orders.PortalService
	ticketService   tickets.TicketService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(customerService customers.CustomerService, portalService orders.PortalService, ticketService tickets.TicketService) PortalHandler {
	return &portalHandler{
		customerService: customerService,
		portalService:   portalService,
		ticketService:   ticketService,
	}
}

// Profile returns the customer's own profile
func (handler *portalHandler) Profile(ctx *gin.Context) {
	customer, err := handler.customerService.GetProfile(ctx, handlerUserID(ctx))
	if err != nil {
		handler.profileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toCustomerResponse(customer))
}

// UpdateProfile updates the customer's own name and phone number
func (handler *portalHandler) UpdateProfile(ctx *gin.Context) {
	var request UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	customer, err := handler.customerService.UpdateProfile(ctx, handlerUserID(ctx), request.FullName, request.PhoneNumber)
	if err != nil {
		handler.profileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Profil bol uložený.",
		"customer": toCustomerResponse(customer),
	})
}

// Overview lists the customer's bikes with their latest orders
func (handler *portalHandler) Overview(ctx *gin.Context) {
	overview, err := handler.portalService.Overview(ctx, handlerUserID(ctx))
	if err != nil {
		handler.profileError(ctx, err)
		return
	}

	bikes := make([]BikeWithLastOrderResponse, 0, len(overview.Bikes))
	for _, entry := range overview.Bikes {
		row := BikeWithLastOrderResponse{Bike: toBikeResponse(entry.Bike)}
		if entry.LastOrder != nil {
			lastOrder := toOrderResponse(entry.LastOrder)
			row.LastOrder = &lastOrder
		}
		bikes = append(bikes, row)
	}

	ctx.JSON(http.StatusOK, PortalOverviewResponse{
		Customer: toCustomerResponse(overview.Customer),
		Bikes:    bikes,
	})
}

// BikeDetail returns one of the customer's bikes with its order history
func (handler *portalHandler) BikeDetail(ctx *gin.Context) {
	bikeID := strutil.ConvertToInt64(ctx.Param("id"))

	detail, err := handler.portalService.BikeDetail(ctx, handlerUserID(ctx), bikeID)
	if err != nil {
		if errors.Is(err, customers.ErrMissingProfile) {
			handler.profileError(ctx, err)
			return
		}
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("bike with ID %d not found", bikeID)})
		return
	}

	orderResponses := make([]OrderResponse, 0, len(detail.Orders))
	for _, order := range detail.Orders {
		orderResponses = append(orderResponses, toOrderResponse(order))
	}

	ctx.JSON(http.StatusOK, BikeDetailResponse{
		Bike:   toBikeResponse(detail.Bike),
		Orders: orderResponses,
	})
}

// Loyalty computes the customer's reward standing
func (handler *portalHandler) Loyalty(ctx *gin.Context) {
	summary, err := handler.portalService.Loyalty(ctx, handlerUserID(ctx))
	if err != nil {
		handler.profileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toLoyaltyResponse(summary))
}

// ListTickets pages the customer's own tickets
func (handler *portalHandler) ListTickets(ctx *gin.Context) {
	page := 1
	if raw := ctx.Query("page"); len(raw) > 0 {
		page = strutil.ConvertToInt(raw)
	}

	ticketPage, err := handler.ticketService.CustomerList(ctx, handlerUserID(ctx), page)
	if err != nil {
		handler.profileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTicketPageResponse(ticketPage))
}

// CreateTicket opens a ticket on one of the customer's own orders
func (handler *portalHandler) CreateTicket(ctx *gin.Context) {
	var request CreateTicketRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ticket, err := handler.ticketService.CreateForOrder(ctx, handlerUserID(ctx), request.OrderID, request.Subject, request.Message)
	if err != nil {
		if errors.Is(err, customers.ErrMissingProfile) {
			handler.profileError(ctx, err)
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not create ticket: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusCreated, toTicketResponse(ticket))
}

// GetTicket returns one of the customer's tickets with its thread
func (handler *portalHandler) GetTicket(ctx *gin.Context) {
	ticketID := strutil.ConvertToInt64(ctx.Param("id"))

	detail, err := handler.ticketService.CustomerDetail(ctx, handlerUserID(ctx), ticketID)
	if err != nil {
		if errors.Is(err, customers.ErrMissingProfile) {
			handler.profileError(ctx, err)
			return
		}
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("ticket with ID %d not found", ticketID)})
		return
	}

	ctx.JSON(http.StatusOK, toTicketDetailResponse(detail))
}

// ReplyTicket appends a customer message and hands the ticket to the staff
func (handler *portalHandler) ReplyTicket(ctx *gin.Context) {
	ticketID := strutil.ConvertToInt64(ctx.Param("id"))

	var request TicketReplyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ticket, err := handler.ticketService.CustomerReply(ctx, handlerUserID(ctx), ticketID, request.Message)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketClosed) || errors.Is(err, tickets.ErrEmptyMessage) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		if errors.Is(err, customers.ErrMissingProfile) {
			handler.profileError(ctx, err)
			return
		}
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("ticket with ID %d not found", ticketID)})
		return
	}

	ctx.JSON(http.StatusOK, toTicketResponse(ticket))
}

// profileError distinguishes a missing customer profile from other failures.
func (handler *portalHandler) profileError(ctx *gin.Context, err error) {
	if errors.Is(err, customers.ErrMissingProfile) {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: customers.ErrMissingProfile.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "request failed"})
}
