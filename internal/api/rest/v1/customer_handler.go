package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/pkg/strutil"
)

// CustomerHandler defines the interface for the staff customer operations
type CustomerHandler interface {
	Register(ctx *gin.Context)
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
}

type customerHandler struct {
	customerService customers.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService customers.CustomerService) CustomerHandler {
	return &customerHandler{customerService: customerService}
}

// Register creates a customer with their first bike and portal account
func (handler *customerHandler) Register(ctx *gin.Context) {
	var request RegisterCustomerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	result, err := handler.customerService.RegisterCustomer(ctx, &customers.RegisterCustomerInput{
		FullName:    request.FullName,
		Email:       request.Email,
		PhoneNumber: request.PhoneNumber,
		BikeBrand:   request.BikeBrand,
		BikeModel:   request.BikeModel,
		BikeSerial:  request.BikeSerial,
	})
	if err != nil {
		if errors.Is(err, customers.ErrMissingCustomerFields) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not register customer: %v", err.Error())})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"customer":     toCustomerResponse(result.Customer),
		"bike":         toBikeResponse(result.Bike),
		"user_created": result.UserCreated,
	})
}

// Get returns one customer
func (handler *customerHandler) Get(ctx *gin.Context) {
	customerID := strutil.ConvertToInt64(ctx.Param("id"))

	customer, err := handler.customerService.GetByID(ctx, customerID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("customer with ID %d not found", customerID)})
		return
	}

	ctx.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Update applies the staff customer edit form
func (handler *customerHandler) Update(ctx *gin.Context) {
	customerID := strutil.ConvertToInt64(ctx.Param("id"))

	var request UpdateCustomerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	customer, err := handler.customerService.UpdateCustomer(ctx, customerID, request.FullName, request.Email, request.PhoneNumber)
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("customer with ID %d not found", customerID)})
		return
	}

	ctx.JSON(http.StatusOK, toCustomerResponse(customer))
}
