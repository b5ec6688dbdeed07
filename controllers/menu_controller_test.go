package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kgn-corner/restaurant-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMenuItem(t *testing.T) {
	env := setupControllerTest(t)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name: "Successfully create with defaults",
			requestBody: map[string]interface{}{
				"name":              "Hakka Noodles",
				"description":       "Wok tossed noodles",
				"price":             "9.5",
				"category":          "noodles",
				"isDietaryFriendly": []string{"vegetarian"},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "9.5", data["price"])
				assert.Equal(t, true, data["isAvailable"])
				assert.Equal(t, float64(15), data["preparationTime"])
				assert.Equal(t, []interface{}{"vegetarian"}, data["isDietaryFriendly"])
			},
		},
		{
			name:           "Fail without price",
			requestBody:    map[string]interface{}{"name": "Tea", "description": "Jasmine", "category": "beverages"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with unknown category",
			requestBody:    map[string]interface{}{"name": "Tea", "description": "Jasmine", "price": "2", "category": "drinks"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with unknown dietary tag",
			requestBody:    map[string]interface{}{"name": "Tea", "description": "Jasmine", "price": "2", "category": "beverages", "isDietaryFriendly": []string{"keto"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with negative price",
			requestBody:    map[string]interface{}{"name": "Tea", "description": "Jasmine", "price": "-2", "category": "beverages"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/menu", mockAuthMiddleware(env.admin), CreateMenuItem)

			w, response := performRequest(t, router, http.MethodPost, "/menu", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCodeOf(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, dataOf(response))
			}
		})
	}
}

func TestListMenu(t *testing.T) {
	env := setupControllerTest(t)
	testutil.CreateMenuItem(t, env.db, "Spring Rolls", "5.00")
	sold := testutil.CreateMenuItem(t, env.db, "Chow Mein", "8.00")
	require.NoError(t, env.db.Model(sold).Update("is_available", false).Error)
	chef := testutil.CreateMenuItem(t, env.db, "Chilli Chicken", "12.00")
	require.NoError(t, env.db.Model(chef).Update("is_chef_recommendation", true).Error)

	router := setupTestRouter()
	router.GET("/menu", ListMenu)
	router.GET("/menu/recommendations", ListRecommendations)
	router.GET("/menu/:id", GetMenuItem)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCount  float64
	}{
		{"All items", "/menu", http.StatusOK, 3},
		{"Available only", "/menu?available=true", http.StatusOK, 2},
		{"Unavailable only", "/menu?available=false", http.StatusOK, 1},
		{"By category", "/menu?category=mains", http.StatusOK, 3},
		{"Available mains", "/menu?category=mains&available=true", http.StatusOK, 2},
		{"Empty category", "/menu?category=desserts", http.StatusOK, 0},
		{"Recommendations", "/menu/recommendations", http.StatusOK, 1},
		{"Bad availability", "/menu?available=maybe", http.StatusBadRequest, 0},
		{"Bad category", "/menu?category=pizza", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, router, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedCount, response["count"])
			}
		})
	}

	w, response := performRequest(t, router, http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	names := []string{}
	for _, item := range response["data"].([]interface{}) {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Chilli Chicken", "Chow Mein", "Spring Rolls"}, names)

	w, response = performRequest(t, router, http.MethodGet, "/menu?category=mains&available=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	names = []string{}
	for _, item := range response["data"].([]interface{}) {
		entry := item.(map[string]interface{})
		assert.Equal(t, "mains", entry["category"])
		assert.Equal(t, true, entry["isAvailable"])
		names = append(names, entry["name"].(string))
	}
	assert.Equal(t, []string{"Chilli Chicken", "Spring Rolls"}, names)

	w, response = performRequest(t, router, http.MethodGet, fmt.Sprintf("/menu/%d", chef.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chilli Chicken", dataOf(response)["name"])

	w, response = performRequest(t, router, http.MethodGet, "/menu/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MENU_ITEM_NOT_FOUND", errorCodeOf(response))
}

func TestUpdateAndDeleteMenuItem(t *testing.T) {
	env := setupControllerTest(t)
	item := testutil.CreateMenuItem(t, env.db, "Fried Rice", "7.00")
	path := fmt.Sprintf("/menu/%d", item.ID)

	router := setupTestRouter()
	admin := mockAuthMiddleware(env.admin)
	router.PUT("/menu/:id", admin, UpdateMenuItem)
	router.DELETE("/menu/:id", admin, DeleteMenuItem)

	w, response := performRequest(t, router, http.MethodPut, path, map[string]interface{}{"price": "7.25", "isAvailable": false})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(response)
	assert.Equal(t, "7.25", data["price"])
	assert.Equal(t, false, data["isAvailable"])
	assert.Equal(t, "Fried Rice", data["name"], "omitted fields keep their value")

	w, response = performRequest(t, router, http.MethodPut, path, map[string]interface{}{"name": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = performRequest(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, response = performRequest(t, router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MENU_ITEM_NOT_FOUND", errorCodeOf(response))
}
