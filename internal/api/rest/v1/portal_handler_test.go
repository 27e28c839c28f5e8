//go:build unit
// +build unit

package v1

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/users"
)

func customerContext(w *httptest.ResponseRecorder) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(contextUserKey, &users.User{ID: 21, Username: "jana@example.com", IsActive: true})
	return c
}

func TestPortalHandler_Profile(t *testing.T) {
	mockCustomerService := new(MockCustomerService)
	handler := NewPortalHandler(mockCustomerService, new(MockPortalService), new(MockTicketService))

	profile := &customers.Customer{ID: 3, FullName: "Jana Kováčová", Email: "jana@example.com"}
	mockCustomerService.On("GetProfile", mock.Anything, int64(21)).Return(profile, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/portal/profile", nil)
	c := customerContext(w)
	c.Request = req

	handler.Profile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jana Kováčová")
	assert.Contains(t, w.Body.String(), "gravatar")
	mockCustomerService.AssertExpectations(t)
}

func TestPortalHandler_Profile_MissingProfile(t *testing.T) {
	mockCustomerService := new(MockCustomerService)
	handler := NewPortalHandler(mockCustomerService, new(MockPortalService), new(MockTicketService))

	mockCustomerService.On("GetProfile", mock.Anything, int64(21)).Return(nil, customers.ErrMissingProfile)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/portal/profile", nil)
	c := customerContext(w)
	c.Request = req

	handler.Profile(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Chýba zákaznícky profil.")
}

func TestPortalHandler_UpdateProfile(t *testing.T) {
	mockCustomerService := new(MockCustomerService)
	handler := NewPortalHandler(mockCustomerService, new(MockPortalService), new(MockTicketService))

	updated := &customers.Customer{ID: 3, FullName: "Jana Nováková", Email: "jana@example.com", PhoneNumber: "+421 903 123 456"}
	mockCustomerService.
		On("UpdateProfile", mock.Anything, int64(21), "Jana Nováková", "+421 903 123 456").
		Return(updated, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/portal/profile",
		bytes.NewBufferString(`{"full_name": "Jana Nováková", "phone_number": "+421 903 123 456"}`))
	req.Header.Set("Content-Type", "application/json")
	c := customerContext(w)
	c.Request = req

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Profil bol uložený.")
	assert.Contains(t, w.Body.String(), "Jana Nováková")
	mockCustomerService.AssertExpectations(t)
}

func TestPortalHandler_Overview(t *testing.T) {
	mockPortalService := new(MockPortalService)
	handler := NewPortalHandler(new(MockCustomerService), mockPortalService, new(MockTicketService))

	overview := &orders.PortalOverview{
		Customer: &customers.Customer{ID: 3, FullName: "Jana Kováčová", Email: "jana@example.com"},
		Bikes: []*orders.BikeWithLastOrder{
			{
				Bike:      &customers.Bike{ID: 2, Brand: "Canyon", Model: "Spectral"},
				LastOrder: &orders.ServiceOrder{ID: 5, BikeID: 2, Status: orders.StatusReady},
			},
			{
				Bike: &customers.Bike{ID: 4, Brand: "Trek"},
			},
		},
	}
	mockPortalService.On("Overview", mock.Anything, int64(21)).Return(overview, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/portal/bikes", nil)
	c := customerContext(w)
	c.Request = req

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Canyon")
	assert.Contains(t, w.Body.String(), `"last_order":null`)
	mockPortalService.AssertExpectations(t)
}

func TestPortalHandler_BikeDetail_NotFound(t *testing.T) {
	mockPortalService := new(MockPortalService)
	handler := NewPortalHandler(new(MockCustomerService), mockPortalService, new(MockTicketService))

	mockPortalService.On("BikeDetail", mock.Anything, int64(21), int64(8)).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/portal/bikes/8", nil)
	c := customerContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "8"}}

	handler.BikeDetail(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "bike with ID 8 not found")
}

func TestPortalHandler_Loyalty(t *testing.T) {
	mockPortalService := new(MockPortalService)
	handler := NewPortalHandler(new(MockCustomerService), mockPortalService, new(MockTicketService))

	summary := &orders.LoyaltySummary{
		TotalSpent:   decimal.RequireFromString("120.00"),
		Points:       60,
		DiscountEUR:  6,
		PointsToNext: 40,
	}
	mockPortalService.On("Loyalty", mock.Anything, int64(21)).Return(summary, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/portal/loyalty", nil)
	c := customerContext(w)
	c.Request = req

	handler.Loyalty(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_spent":"120.00"`)
	assert.Contains(t, w.Body.String(), `"points":60`)
	mockPortalService.AssertExpectations(t)
}

func TestPortalHandler_CreateTicket_MissingOrder(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewPortalHandler(new(MockCustomerService), new(MockPortalService), mockTicketService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/portal/tickets", bytes.NewBufferString(`{"message": "Kedy bude hotový?"}`))
	req.Header.Set("Content-Type", "application/json")
	c := customerContext(w)
	c.Request = req

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTicketService.AssertNotCalled(t, "CreateForOrder")
}
