package http

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
)

func TestValidator_IndianPhone(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		phone string
		ok    bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"919876543210", true},
		{"5876543210", false},
		{"98765", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			fields := v.Struct(&dto.OTPRequest{Phone: tt.phone})
			if tt.ok {
				assert.Nil(t, fields)
				return
			}
			require.NotNil(t, fields)
			assert.Equal(t, "phone must be a valid Indian mobile number", fields["phone"])
		})
	}
}

func TestValidator_CamposConNombreJSON(t *testing.T) {
	v := NewValidator()
	fields := v.Struct(&dto.CreateProductRequest{Price: decimal.NewFromInt(-1), StockQuantity: -2})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")
	assert.Equal(t, "price must be 0 or greater", fields["price"])
	assert.Contains(t, fields, "stock_quantity")
}

func TestValidator_DecimalOpcional(t *testing.T) {
	v := NewValidator()
	neg := decimal.RequireFromString("-0.01")
	fields := v.Struct(&dto.UpdateProductRequest{Price: &neg})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "price")

	ok := decimal.RequireFromString("45.50")
	assert.Nil(t, v.Struct(&dto.UpdateProductRequest{Price: &ok}))
	assert.Nil(t, v.Struct(&dto.UpdateProductRequest{}))
}

func TestValidator_HorarioAnidado(t *testing.T) {
	v := NewValidator()
	fields := v.Struct(&dto.UpdateStoreHoursRequest{Hours: []dto.StoreHoursDTO{
		{DayOfWeek: 0, OpenTime: "09:00", CloseTime: "21:00"},
		{DayOfWeek: 9, OpenTime: "9am", CloseTime: "21:00"},
	}})
	require.NotNil(t, fields)
	assert.Equal(t, "open_time must be a time in HH:MM format", fields["hours[1].open_time"])
	assert.Contains(t, fields, "hours[1].day_of_week")
	assert.NotContains(t, fields, "hours[0].open_time")
}

func TestValidator_EstadoDePedido(t *testing.T) {
	v := NewValidator()
	assert.Nil(t, v.Struct(&dto.UpdateOrderStatusRequest{Status: "confirmed"}))

	fields := v.Struct(&dto.UpdateOrderStatusRequest{Status: "shipped"})
	require.NotNil(t, fields)
	assert.Equal(t, "status must be a valid order status", fields["status"])
}

func TestValidator_QueryUsaNombreDeQuery(t *testing.T) {
	v := NewValidator()
	fields := v.Struct(&dto.DateRangeQuery{From: "19-10-2026"})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "from")
}
