package skins

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/valoarmory/armory/pkg/armory/auth"
	"github.com/valoarmory/armory/pkg/armory/models"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createTestAdmin(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		UserID:       auth.NewUserID(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Admin",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, zap.NewNop())

	api := r.Group("/api", auth.Middleware(testSecret), auth.RequireAdmin())
	handler.RegisterRoutes(api)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user, testSecret, time.Hour)
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSkin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	body := CreateSkinRequest{
		Filename:   "vandal-dragon.png",
		ImageURL:   "https://cdn.example.com/vandal-dragon.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
		Price:      intPtr(1000),
	}
	resp := doJSON(router, "POST", "/api/skins", body, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var skin SkinResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &skin))
	assert.Equal(t, "Active", skin.Status)
	assert.Equal(t, 1000, skin.Price)
	assert.Equal(t, admin.UserID, skin.UserID)
	assert.Len(t, skin.APIKey, 64)
	assert.NotContains(t, skin.APIKeyMasked, skin.APIKey)
}

func TestCreateSkinMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	body := CreateSkinRequest{
		Filename:   "vandal-dragon.png",
		WeaponType: "Rifle",
		// ImageURL and WeaponName missing
	}
	resp := doJSON(router, "POST", "/api/skins", body, getAuthHeader(admin))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateSkinNonNumericPrice(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	raw := `{"filename":"a.png","imageUrl":"https://x/a.png","weaponType":"Rifle","weaponName":"Vandal","price":"lots"}`
	req, _ := http.NewRequest("POST", "/api/skins", bytes.NewBufferString(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(admin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateSkinNegativePriceDefaultsToZero(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	body := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
		Price:      intPtr(-50),
	}
	resp := doJSON(router, "POST", "/api/skins", body, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code)

	var skin SkinResponse
	json.Unmarshal(resp.Body.Bytes(), &skin)
	assert.Equal(t, 0, skin.Price)
}

func TestCreateSkinDistinctKeys(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	body := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	resp1 := doJSON(router, "POST", "/api/skins", body, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp1.Code)
	time.Sleep(2 * time.Millisecond)
	resp2 := doJSON(router, "POST", "/api/skins", body, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp2.Code)

	var s1, s2 SkinResponse
	json.Unmarshal(resp1.Body.Bytes(), &s1)
	json.Unmarshal(resp2.Body.Bytes(), &s2)
	assert.NotEqual(t, s1.APIKey, s2.APIKey)
}

func TestUpdateSkinPriceRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
		Price:      intPtr(1000),
	}
	resp := doJSON(router, "POST", "/api/skins", create, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code)
	var created SkinResponse
	json.Unmarshal(resp.Body.Bytes(), &created)

	listResp := doJSON(router, "GET", "/api/skins", nil, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, listResp.Code)
	var listed []SkinResponse
	json.Unmarshal(listResp.Body.Bytes(), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, 1000, listed[0].Price)

	update := UpdateSkinRequest{Price: intPtr(500)}
	updResp := doJSON(router, "PUT", "/api/skins/1", update, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, updResp.Code)

	listResp = doJSON(router, "GET", "/api/skins", nil, getAuthHeader(admin))
	json.Unmarshal(listResp.Body.Bytes(), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, 500, listed[0].Price)
	assert.Equal(t, created.APIKey, listed[0].APIKey, "key must not change unless explicitly supplied")
}

func TestUpdateSkinExplicitAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	resp := doJSON(router, "POST", "/api/skins", create, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code)

	update := UpdateSkinRequest{APIKey: "replacement-key-0001"}
	updResp := doJSON(router, "PUT", "/api/skins/1", update, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, updResp.Code)

	var updated SkinResponse
	json.Unmarshal(updResp.Body.Bytes(), &updated)
	assert.Equal(t, "replacement-key-0001", updated.APIKey)
}

func TestUpdateSkinNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	update := UpdateSkinRequest{Price: intPtr(500)}
	resp := doJSON(router, "PUT", "/api/skins/999", update, getAuthHeader(admin))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateSkinCrossOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestAdmin(t, db, "owner@example.com")
	other := createTestAdmin(t, db, "other@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	resp := doJSON(router, "POST", "/api/skins", create, getAuthHeader(owner))
	require.Equal(t, http.StatusCreated, resp.Code)

	update := UpdateSkinRequest{Price: intPtr(1)}
	updResp := doJSON(router, "PUT", "/api/skins/1", update, getAuthHeader(other))
	assert.Equal(t, http.StatusNotFound, updResp.Code)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	resp := doJSON(router, "POST", "/api/skins", create, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code)

	statusResp := doJSON(router, "PATCH", "/api/skins/status",
		UpdateStatusRequest{ID: 1, Status: "Disabled"}, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, statusResp.Code)

	var skin models.WeaponSkin
	require.NoError(t, db.First(&skin, 1).Error)
	assert.Equal(t, models.StatusDisabled, skin.Status)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	doJSON(router, "POST", "/api/skins", create, getAuthHeader(admin))

	statusResp := doJSON(router, "PATCH", "/api/skins/status",
		UpdateStatusRequest{ID: 1, Status: "Archived"}, getAuthHeader(admin))
	assert.Equal(t, http.StatusBadRequest, statusResp.Code)

	var skin models.WeaponSkin
	require.NoError(t, db.First(&skin, 1).Error)
	assert.Equal(t, models.StatusActive, skin.Status, "stored status must be unchanged after rejection")
}

func TestUpdateStatusMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	resp := doJSON(router, "PATCH", "/api/skins/status", map[string]interface{}{"id": 1}, getAuthHeader(admin))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteSkin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	resp := doJSON(router, "POST", "/api/skins", create, getAuthHeader(admin))
	require.Equal(t, http.StatusCreated, resp.Code)

	delResp := doJSON(router, "DELETE", "/api/skins/1", nil, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, delResp.Code)

	listResp := doJSON(router, "GET", "/api/skins", nil, getAuthHeader(admin))
	var listed []SkinResponse
	json.Unmarshal(listResp.Body.Bytes(), &listed)
	assert.Empty(t, listed)
}

func TestDeleteSkinCrossOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestAdmin(t, db, "owner@example.com")
	other := createTestAdmin(t, db, "other@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	doJSON(router, "POST", "/api/skins", create, getAuthHeader(owner))

	delResp := doJSON(router, "DELETE", "/api/skins/1", nil, getAuthHeader(other))
	assert.Equal(t, http.StatusNotFound, delResp.Code)
}

func TestListScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	a := createTestAdmin(t, db, "a@example.com")
	b := createTestAdmin(t, db, "b@example.com")

	create := CreateSkinRequest{
		Filename:   "a.png",
		ImageURL:   "https://x/a.png",
		WeaponType: "Rifle",
		WeaponName: "Vandal",
	}
	doJSON(router, "POST", "/api/skins", create, getAuthHeader(a))
	create.Filename = "b.png"
	doJSON(router, "POST", "/api/skins", create, getAuthHeader(b))

	listResp := doJSON(router, "GET", "/api/skins", nil, getAuthHeader(a))
	var listed []SkinResponse
	json.Unmarshal(listResp.Body.Bytes(), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, a.UserID, listed[0].UserID)
}

func TestSkinsRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := doJSON(router, "GET", "/api/skins", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func intPtr(v int) *int { return &v }
