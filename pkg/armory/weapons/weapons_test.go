package weapons

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

func TestWeaponLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	// Create
	resp := doJSON(router, "POST", "/api/weapons",
		CreateWeaponRequest{Name: "Vandal", Type: "Rifle"}, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created models.Weapon
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Vandal", created.Name)

	// A skin carrying the weapon's name, created independently
	skin := models.WeaponSkin{
		Filename:   "vandal.png",
		ImageURL:   "https://x/vandal.png",
		UserID:     admin.UserID,
		WeaponType: "Rifle",
		WeaponName: "Vandal",
		APIKey:     "key-1",
		Status:     models.StatusActive,
	}
	require.NoError(t, db.Create(&skin).Error)

	// Delete
	delResp := doJSON(router, "DELETE", "/api/weapons",
		DeleteWeaponRequest{ID: created.ID}, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, delResp.Code)

	// Gone from the reference list
	listResp := doJSON(router, "GET", "/api/weapons", nil, getAuthHeader(admin))
	var weapons []models.Weapon
	json.Unmarshal(listResp.Body.Bytes(), &weapons)
	assert.Empty(t, weapons)

	// The skin keeps its now-orphaned name/type strings
	var kept models.WeaponSkin
	require.NoError(t, db.First(&kept, skin.ID).Error)
	assert.Equal(t, "Vandal", kept.WeaponName)
	assert.Equal(t, "Rifle", kept.WeaponType)
}

func TestCreateWeaponMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	resp := doJSON(router, "POST", "/api/weapons",
		map[string]string{"name": "Vandal"}, getAuthHeader(admin))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteWeaponMissingID(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	resp := doJSON(router, "DELETE", "/api/weapons", map[string]string{}, getAuthHeader(admin))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteWeaponNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	resp := doJSON(router, "DELETE", "/api/weapons",
		DeleteWeaponRequest{ID: 999}, getAuthHeader(admin))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListWeaponsOrderedByID(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestAdmin(t, db, "admin@example.com")

	doJSON(router, "POST", "/api/weapons", CreateWeaponRequest{Name: "Vandal", Type: "Rifle"}, getAuthHeader(admin))
	doJSON(router, "POST", "/api/weapons", CreateWeaponRequest{Name: "Operator", Type: "Sniper"}, getAuthHeader(admin))

	listResp := doJSON(router, "GET", "/api/weapons", nil, getAuthHeader(admin))
	require.Equal(t, http.StatusOK, listResp.Code)

	var weapons []models.Weapon
	json.Unmarshal(listResp.Body.Bytes(), &weapons)
	require.Len(t, weapons, 2)
	assert.Equal(t, "Vandal", weapons[0].Name)
	assert.Equal(t, "Operator", weapons[1].Name)
}
