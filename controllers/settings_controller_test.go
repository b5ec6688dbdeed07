package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRestaurant(t *testing.T) {
	setupControllerTest(t)

	router := setupTestRouter()
	router.GET("/restaurant", GetRestaurant)

	w, response := performRequest(t, router, http.MethodGet, "/restaurant", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataOf(response)
	assert.Equal(t, "KGN Chinese Corner", data["restaurantName"])
	features := data["features"].(map[string]interface{})
	assert.Equal(t, true, features["enableReservations"])
	hours := data["openingHours"].(map[string]interface{})
	assert.Equal(t, "23:00", hours["friday"].(map[string]interface{})["close"])
}

func TestUpdateRestaurant(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "Rename and change monday hours",
			requestBody:    map[string]interface{}{"restaurantName": "  KGN Corner  ", "openingHours": map[string]interface{}{"Monday": map[string]interface{}{"isClosed": true}}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "KGN Corner", data["restaurantName"])
				hours := data["openingHours"].(map[string]interface{})
				assert.Equal(t, true, hours["monday"].(map[string]interface{})["isClosed"])
				assert.Equal(t, "22:00", hours["tuesday"].(map[string]interface{})["close"], "other days untouched")
			},
		},
		{
			name:           "Disable reservations only",
			requestBody:    map[string]interface{}{"features": map[string]interface{}{"enableReservations": false}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				features := data["features"].(map[string]interface{})
				assert.Equal(t, false, features["enableReservations"])
				assert.Equal(t, true, features["enableOnlineOrdering"])
				assert.Equal(t, true, features["enableDelivery"])
				assert.Equal(t, true, features["enablePickup"])
				assert.Equal(t, true, features["enablePayments"])
			},
		},
		{"Fail with blank name", map[string]interface{}{"restaurantName": "  "}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
		{"Fail with tax above one", map[string]interface{}{"taxRate": "1.5"}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
		{"Fail with tax beyond four decimals", map[string]interface{}{"taxRate": "0.08875"}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
		{"Fail with negative delivery fee", map[string]interface{}{"deliveryFee": "-1"}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
		{"Fail with bad clock", map[string]interface{}{"openingHours": map[string]interface{}{"monday": map[string]interface{}{"open": "9am", "close": "17:00"}}}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
		{"Fail with unknown weekday", map[string]interface{}{"openingHours": map[string]interface{}{"funday": map[string]interface{}{"open": "09:00", "close": "17:00"}}}, http.StatusBadRequest, "VALIDATION_ERROR", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.PUT("/restaurant", mockAuthMiddleware(env.admin), UpdateRestaurant)

			w, response := performRequest(t, router, http.MethodPut, "/restaurant", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCodeOf(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, dataOf(response))
			}
		})
	}

	t.Run("Disabled reservations reject bookings", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/reservations", CreateReservation)

		w, response := performRequest(t, router, http.MethodPost, "/reservations", reservationBody(2, inDays(1)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "FEATURE_DISABLED", errorCodeOf(response))
	})
}
