package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/pkg/strutil"
)

// OrderHandler defines the interface for the staff service panel operations
type OrderHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
	SetRowStatus(ctx *gin.Context)
	SetRowPromisedDate(ctx *gin.Context)
	ApplyPackage(ctx *gin.Context)
	UploadPhotos(ctx *gin.Context)
	ListPhotos(ctx *gin.Context)
	DownloadPhoto(ctx *gin.Context)
	DeletePhoto(ctx *gin.Context)
	Invite(ctx *gin.Context)
	SendSMS(ctx *gin.Context)
	SendProtocolEmail(ctx *gin.Context)
	ProtocolPDF(ctx *gin.Context)
}

type orderHandler struct {
	orderService orders.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService orders.OrderService) OrderHandler {
	return &orderHandler{orderService: orderService}
}

// List returns one panel page, narrowed by tab, status, and smart search
func (handler *orderHandler) List(ctx *gin.Context) {
	query := orders.NewOrderQuery()

	if tab := ctx.Query("tab"); len(tab) > 0 {
		query.Tab = tab
	}
	if status := ctx.Query("status"); len(status) > 0 {
		query.Status = status
	}
	if ctx.Query("done_today") == "1" {
		query.DoneToday = true
	}
	if ctx.Query("waiting_tickets") == "1" {
		query.WaitingTickets = true
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

	page, err := handler.orderService.List(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, toOrderPageResponse(page))
}

// Create books a new repair per the intake form
func (handler *orderHandler) Create(ctx *gin.Context) {
	var request CreateOrderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	result, err := handler.orderService.Create(ctx, &orders.CreateOrderInput{
		BikeID:           request.BikeID,
		CustomerID:       request.CustomerID,
		FullName:         request.FullName,
		Email:            request.Email,
		PhoneNumber:      request.PhoneNumber,
		BikeBrand:        request.BikeBrand,
		BikeModel:        request.BikeModel,
		BikeSerial:       request.BikeSerial,
		IssueDescription: request.IssueDescription,
	})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("Servisná objednávka #%s bola vytvorená.", result.Order.Code()),
		"order":    toOrderResponse(result.Order),
		"bike":     toBikeResponse(result.Bike),
		"customer": toCustomerResponse(result.Customer),
	})
}

// Get returns the staff order detail payload
func (handler *orderHandler) Get(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	detail, err := handler.orderService.Get(ctx, orderID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("order with ID %d not found", orderID)})
		return
	}

	ctx.JSON(http.StatusOK, toOrderDetailResponse(detail))
}

// Update applies the staff detail form
func (handler *orderHandler) Update(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	var request UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	order, err := handler.orderService.Update(ctx, orderID, &orders.UpdateOrderInput{
		Status:           request.Status,
		IssueDescription: request.IssueDescription,
		WorkDone:         request.WorkDone,
		PromisedDate:     request.PromisedDate,
		Price:            request.Price,
		Checklist:        request.Checklist,
	}, handlerUserID(ctx))
	if err != nil {
		if errors.Is(err, orders.ErrInvalidPrice) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not update order %d: %v", orderID, err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, toOrderResponse(order))
}

// SetRowStatus applies a panel row quick status change
func (handler *orderHandler) SetRowStatus(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	var request RowStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	order, err := handler.orderService.SetStatus(ctx, orderID, request.Status, handlerUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not update order %d: %v", orderID, err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, toOrderResponse(order))
}

// SetRowPromisedDate applies a panel row promised-date change; empty clears
func (handler *orderHandler) SetRowPromisedDate(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	var request RowPromisedDateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	order, err := handler.orderService.SetPromisedDate(ctx, orderID, request.PromisedDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not update order %d: %v", orderID, err.Error())})
		return
	}

	response := toOrderResponse(order)
	eta := orders.ETAFor(order, time.Now().UTC())
	ctx.JSON(http.StatusOK, gin.H{"order": response, "eta": toETAResponse(eta)})
}

// ApplyPackage overwrites price, work summary, and checklist with a
// predefined package
func (handler *orderHandler) ApplyPackage(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	var request ApplyPackageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	order, pkg, err := handler.orderService.ApplyPackage(ctx, orderID, request.Package)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Balík %s bol aplikovaný.", pkg.Label),
		"order":   toOrderResponse(order),
	})
}

// UploadPhotos stores every file of the form's "photos" field
func (handler *orderHandler) UploadPhotos(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid form data"})
		return
	}

	photos, err := handler.orderService.AttachPhotos(ctx, orderID, form)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("error uploading photos: %v", err.Error())})
		return
	}

	responses := make([]PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		responses = append(responses, toPhotoResponse(photo))
	}
	ctx.JSON(http.StatusCreated, responses)
}

// ListPhotos lists an order's photos, newest first
func (handler *orderHandler) ListPhotos(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	photos, err := handler.orderService.Photos(ctx, orderID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("order with ID %d not found", orderID)})
		return
	}

	responses := make([]PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		responses = append(responses, toPhotoResponse(photo))
	}
	ctx.JSON(http.StatusOK, responses)
}

// DownloadPhoto streams a stored photo as an attachment
func (handler *orderHandler) DownloadPhoto(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))
	photoID := strutil.ConvertToInt64(ctx.Param("photoId"))

	name, content, err := handler.orderService.DownloadPhoto(ctx, orderID, photoID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("photo with ID %d not found", photoID)})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	ctx.Data(http.StatusOK, "application/octet-stream", content)
}

// DeletePhoto removes the photo record and its stored file
func (handler *orderHandler) DeletePhoto(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))
	photoID := strutil.ConvertToInt64(ctx.Param("photoId"))

	if err := handler.orderService.DeletePhoto(ctx, orderID, photoID); err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("photo with ID %d not found", photoID)})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted photo with ID %d", photoID)})
}

// Invite queues a portal invitation for the order's customer
func (handler *orderHandler) Invite(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	if err := handler.orderService.InviteToPortal(ctx, orderID, handlerUserID(ctx)); err != nil {
		if errors.Is(err, orders.ErrCustomerWithoutEmail) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "Zákazník nemá email."})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not send invite: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: "Pozvánka bola odoslaná."})
}

// SendSMS queues a manual SMS to the customer
func (handler *orderHandler) SendSMS(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	var request SendSMSRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	if err := handler.orderService.SendSMS(ctx, orderID, request.Phone, request.Text, handlerUserID(ctx)); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not send SMS: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: "SMS bola odoslaná."})
}

// SendProtocolEmail queues the protocol email with the PDF attached
func (handler *orderHandler) SendProtocolEmail(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	if err := handler.orderService.SendProtocolEmail(ctx, orderID, handlerUserID(ctx)); err != nil {
		if errors.Is(err, orders.ErrCustomerWithoutEmail) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "Zákazník nemá email."})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not send protocol: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: "Protokol bol odoslaný."})
}

// ProtocolPDF renders the service protocol and streams it inline
func (handler *orderHandler) ProtocolPDF(ctx *gin.Context) {
	orderID := strutil.ConvertToInt64(ctx.Param("id"))

	name, content, err := handler.orderService.ProtocolPDF(ctx, orderID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("order with ID %d not found", orderID)})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", name))
	ctx.Data(http.StatusOK, "application/pdf", content)
}

// handlerUserID returns the acting staff user's ID for log attribution, zero
// when unauthenticated.
func handlerUserID(ctx *gin.Context) int64 {
	if user := currentUser(ctx); user != nil {
		return user.ID
	}
	return 0
}
