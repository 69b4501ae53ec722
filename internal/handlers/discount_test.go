package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jaanutuni/internal/models"
)

func addDiscountPayload(code string) map[string]interface{} {
	return map[string]interface{}{
		"discountCode":  code,
		"celebrityName": "Some Celebrity",
		"usageCount":    3,
		"value":         15,
	}
}

func TestAddAndGetActiveDiscount(t *testing.T) {
	app, _, _ := setupApp(t)

	code, body := doJSON(t, app, http.MethodPost, "/add-discount", addDiscountPayload("CELEB15"))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Discount code added successfully", body["message"])

	discount := body["discount"].(map[string]interface{})
	assert.Equal(t, models.DiscountActive, discount["status"])

	code, body = doJSON(t, app, http.MethodGet, "/discounts?discountCode=CELEB15", nil)
	require.Equal(t, http.StatusOK, code)
	discounts := body["discounts"].([]interface{})
	require.Len(t, discounts, 1)
	found := discounts[0].(map[string]interface{})
	assert.Equal(t, "CELEB15", found["discountCode"])
	assert.Equal(t, float64(3), found["usageCount"])
	assert.Equal(t, float64(15), found["value"])

	// Duplicate code is a 400 conflict.
	code, _ = doJSON(t, app, http.MethodPost, "/add-discount", addDiscountPayload("CELEB15"))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAddDiscountValidation(t *testing.T) {
	app, _, _ := setupApp(t)

	cases := []map[string]interface{}{
		{"celebrityName": "X", "usageCount": 0, "value": 10},   // missing code
		{"discountCode": "A", "usageCount": 0, "value": 10},    // missing owner
		{"discountCode": "B", "celebrityName": "X", "usageCount": -1, "value": 10}, // negative usage
		{"discountCode": "C", "celebrityName": "X", "usageCount": 0, "value": 0},   // non-positive value
	}

	for _, payload := range cases {
		code, body := doJSON(t, app, http.MethodPost, "/add-discount", payload)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid input data", body["error"])
	}
}

func TestIncrementDiscountUsage(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/add-discount", addDiscountPayload("CELEB15"))
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, app, http.MethodPost, "/increment-discount-usage", map[string]string{"code": "CELEB15"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Discount usage count incremented successfully.", body["message"])

	// Usage went up by exactly one.
	code, body = doJSON(t, app, http.MethodGet, "/discounts?discountCode=CELEB15", nil)
	require.Equal(t, http.StatusOK, code)
	found := body["discounts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(4), found["usageCount"])

	code, _ = doJSON(t, app, http.MethodPost, "/increment-discount-usage", map[string]string{"code": "NOPE"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateDiscountStatus(t *testing.T) {
	app, _, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/add-discount", addDiscountPayload("CELEB15"))
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, app, http.MethodPatch, "/update-discount-status/CELEB15",
		map[string]string{"status": models.DiscountInactive})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Discount code status updated successfully.", body["message"])

	// Inactive codes look exactly like missing ones to redeemers.
	code, _ = doJSON(t, app, http.MethodGet, "/discounts?discountCode=CELEB15", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, app, http.MethodPatch, "/update-discount-status/NOPE",
		map[string]string{"status": models.DiscountActive})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListDiscounts(t *testing.T) {
	app, _, _ := setupApp(t)

	for _, code := range []string{"AAA", "BBB"} {
		status, _ := doJSON(t, app, http.MethodPost, "/add-discount", addDiscountPayload(code))
		require.Equal(t, http.StatusCreated, status)
	}

	resp := doGET(t, app, "/discount-codes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.DiscountCode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	resp.Body.Close()
	assert.Len(t, all, 2)

	// Filtered variant narrows to one code, or returns everything.
	resp = doGET(t, app, "/discountscodes?discountCode=AAA")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var filtered []models.DiscountCode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filtered))
	resp.Body.Close()
	require.Len(t, filtered, 1)
	assert.Equal(t, "AAA", filtered[0].Code)

	resp = doGET(t, app, "/discountscodes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unfiltered []models.DiscountCode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unfiltered))
	resp.Body.Close()
	assert.Len(t, unfiltered, 2)
}
