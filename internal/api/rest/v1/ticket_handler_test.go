//go:build unit
// +build unit

package v1

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/litovianka/bike-service/internal/domain/tickets"
)

func TestTicketHandler_List(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewTicketHandler(mockTicketService)

	page := &tickets.TicketPage{
		Items: []*tickets.TicketListItem{
			{
				Ticket:       &tickets.Ticket{ID: 1, OrderID: 5, Status: tickets.StatusWaitingAdmin, Subject: "Otázka k objednávke #5"},
				OrderCode:    "5",
				BikeLabel:    "Canyon Spectral",
				CustomerName: "Jana Kováčová",
			},
		},
		TotalCount: 1,
		Page:       1,
		PageCount:  1,
	}
	mockTicketService.
		On("StaffList", mock.Anything, mock.MatchedBy(func(query *tickets.TicketQuery) bool {
			return query.Status == "WAITING_ADMIN"
		})).
		Return(page, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tickets?status=WAITING_ADMIN", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Otázka k objednávke #5")
	assert.Contains(t, w.Body.String(), "Jana Kováčová")
	mockTicketService.AssertExpectations(t)
}

func TestTicketHandler_Get_NotFound(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewTicketHandler(mockTicketService)

	mockTicketService.On("StaffDetail", mock.Anything, int64(404)).Return(nil, assert.AnError)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/tickets/404", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "404"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ticket with ID 404 not found")
}

func TestTicketHandler_Reply_Closed(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewTicketHandler(mockTicketService)

	mockTicketService.
		On("StaffReply", mock.Anything, int64(3), int64(9), "Ozveme sa.").
		Return(nil, tickets.ErrTicketClosed)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/tickets/3/reply", bytes.NewBufferString(`{"message": "Ozveme sa."}`))
	req.Header.Set("Content-Type", "application/json")
	c := staffContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "3"}}

	handler.Reply(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), tickets.ErrTicketClosed.Error())
}

func TestTicketHandler_SetStatus(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewTicketHandler(mockTicketService)

	closed := &tickets.Ticket{ID: 3, OrderID: 5, Status: tickets.StatusClosed, Subject: "Otázka k objednávke #5"}
	mockTicketService.
		On("SetStatus", mock.Anything, int64(3), "CLOSED").
		Return(closed, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/tickets/3/status", bytes.NewBufferString(`{"status": "CLOSED"}`))
	req.Header.Set("Content-Type", "application/json")
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "3"}}

	handler.SetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CLOSED")
	mockTicketService.AssertExpectations(t)
}

func TestTicketHandler_SetStatus_UnknownStatus(t *testing.T) {
	mockTicketService := new(MockTicketService)
	handler := NewTicketHandler(mockTicketService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/tickets/3/status", bytes.NewBufferString(`{"status": "ARCHIVED"}`))
	req.Header.Set("Content-Type", "application/json")
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "3"}}

	handler.SetStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTicketService.AssertNotCalled(t, "SetStatus")
}
