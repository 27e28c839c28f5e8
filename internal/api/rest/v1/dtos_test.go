//go:build unit
// +build unit

package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   LoginRequest
		shouldErr bool
	}{
		{"valid", LoginRequest{Identifier: "admin", Password: "super-secret-1"}, false},
		{"missing identifier", LoginRequest{Password: "super-secret-1"}, true},
		{"missing password", LoginRequest{Identifier: "admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetPasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   SetPasswordRequest
		shouldErr bool
	}{
		{"valid", SetPasswordRequest{NewPassword: "nove-heslo-123", ConfirmPassword: "nove-heslo-123"}, false},
		{"too short", SetPasswordRequest{NewPassword: "kratke", ConfirmPassword: "kratke"}, true},
		{"missing confirmation", SetPasswordRequest{NewPassword: "nove-heslo-123"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateOrderRequest
		shouldErr bool
	}{
		{"walk-in intake", CreateOrderRequest{FullName: "Peter Novák", Email: "peter@example.com", BikeBrand: "Trek"}, false},
		{"existing bike only", CreateOrderRequest{BikeID: 4, IssueDescription: "Preskakuje radenie"}, false},
		{"malformed email", CreateOrderRequest{FullName: "Peter Novák", Email: "not-an-email"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   UpdateOrderRequest
		shouldErr bool
	}{
		{"full form", UpdateOrderRequest{Status: "DONE", WorkDone: "Vymenené platničky", Price: "49,90"}, false},
		{"empty form", UpdateOrderRequest{}, false},
		{"unknown status", UpdateOrderRequest{Status: "ARCHIVED"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterCustomerRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   RegisterCustomerRequest
		shouldErr bool
	}{
		{"valid", RegisterCustomerRequest{FullName: "Jana Kováčová", Email: "jana@example.com", BikeBrand: "Canyon"}, false},
		{"missing bike brand", RegisterCustomerRequest{FullName: "Jana Kováčová", Email: "jana@example.com"}, true},
		{"missing email", RegisterCustomerRequest{FullName: "Jana Kováčová", BikeBrand: "Canyon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateTicketRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateTicketRequest
		shouldErr bool
	}{
		{"valid", CreateTicketRequest{OrderID: 5, Message: "Kedy bude hotový?"}, false},
		{"default subject", CreateTicketRequest{OrderID: 5}, false},
		{"missing order", CreateTicketRequest{Message: "Kedy bude hotový?"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTicketStatusRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   TicketStatusRequest
		shouldErr bool
	}{
		{"valid", TicketStatusRequest{Status: "WAITING_CUSTOMER"}, false},
		{"unknown status", TicketStatusRequest{Status: "ARCHIVED"}, true},
		{"missing status", TicketStatusRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
