package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/pkg/strutil"
)

// TicketHandler defines the interface for the staff ticket operations
type TicketHandler interface {
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	Reply(ctx *gin.Context)
	SetStatus(ctx *gin.Context)
}

type ticketHandler struct {
	ticketService tickets.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService tickets.TicketService) TicketHandler {
	return &ticketHandler{ticketService: ticketService}
}

// List pages all tickets, narrowed by status and search
func (handler *ticketHandler) List(ctx *gin.Context) {
	query := tickets.NewTicketQuery()

	if status := ctx.Query("status"); len(status) > 0 {
		query.Status = status
	}
	if search := ctx.Query("q"); len(search) > 0 {
		query.Search = search
	}
	if page := ctx.Query("page"); len(page) > 0 {
		query.Page = strutil.ConvertToInt(page)
	}
	if pageSize := ctx.Query("page_size"); len(pageSize) > 0 {
		query.PageSize = strutil.ConvertToInt(pageSize)
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err.Error())})
		return
	}

	page, err := handler.ticketService.StaffList(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, toTicketPageResponse(page))
}

// Get returns any ticket with its thread
func (handler *ticketHandler) Get(ctx *gin.Context) {
	ticketID := strutil.ConvertToInt64(ctx.Param("id"))

	detail, err := handler.ticketService.StaffDetail(ctx, ticketID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("ticket with ID %d not found", ticketID)})
		return
	}

	ctx.JSON(http.StatusOK, toTicketDetailResponse(detail))
}

// Reply appends a staff message and hands the ticket to the customer
func (handler *ticketHandler) Reply(ctx *gin.Context) {
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

	ticket, err := handler.ticketService.StaffReply(ctx, ticketID, handlerUserID(ctx), request.Message)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketClosed) || errors.Is(err, tickets.ErrEmptyMessage) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("ticket with ID %d not found", ticketID)})
		return
	}

	ctx.JSON(http.StatusOK, toTicketResponse(ticket))
}

// SetStatus sets any valid ticket status
func (handler *ticketHandler) SetStatus(ctx *gin.Context) {
	ticketID := strutil.ConvertToInt64(ctx.Param("id"))

	var request TicketStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ticket, err := handler.ticketService.SetStatus(ctx, ticketID, request.Status)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("ticket with ID %d not found", ticketID)})
		return
	}

	ctx.JSON(http.StatusOK, toTicketResponse(ticket))
}
