package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	bloodrequestrepository "github.com/lifedrop/lifedrop/internal/bloodrequest/repository"
	bloodrequestservice "github.com/lifedrop/lifedrop/internal/bloodrequest/service"
	campdomain "github.com/lifedrop/lifedrop/internal/camp/domain"
	camprepository "github.com/lifedrop/lifedrop/internal/camp/repository"
	campservice "github.com/lifedrop/lifedrop/internal/camp/service"
	"github.com/lifedrop/lifedrop/internal/config"
	"github.com/lifedrop/lifedrop/internal/events"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
	inventoryrepository "github.com/lifedrop/lifedrop/internal/inventory/repository"
	inventoryservice "github.com/lifedrop/lifedrop/internal/inventory/service"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
	issuancerepository "github.com/lifedrop/lifedrop/internal/issuance/repository"
	issuanceservice "github.com/lifedrop/lifedrop/internal/issuance/service"
	notificationdomain "github.com/lifedrop/lifedrop/internal/notification/domain"
	notificationrepository "github.com/lifedrop/lifedrop/internal/notification/repository"
	notificationservice "github.com/lifedrop/lifedrop/internal/notification/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T, name string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&inventorydomain.BloodPacket{},
		&issuancedomain.IssuanceRecord{},
		&bloodrequestdomain.BloodRequest{},
		&notificationdomain.Notification{},
		&campdomain.Camp{},
		&campdomain.CampRegistration{},
		&events.OutboxEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	outbox := events.NewOutbox(node)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := NewServer(ServerParams{
		Gin: engine,
		Cfg: config.Config{},
		InventorySvc: inventoryservice.New(inventoryservice.Params{
			DB:         db,
			Log:        log,
			GenID:      node,
			Repo:       inventoryrepository.Provide(),
			LedgerRepo: issuancerepository.Provide(),
			Outbox:     outbox,
		}),
		IssuanceSvc: issuanceservice.New(issuanceservice.Params{
			DB:   db,
			Log:  log,
			Repo: issuancerepository.Provide(),
		}),
		BloodRequestSvc: bloodrequestservice.New(bloodrequestservice.Params{
			DB:     db,
			Log:    log,
			GenID:  node,
			Repo:   bloodrequestrepository.Provide(),
			Outbox: outbox,
		}),
		NotificationSvc: notificationservice.New(notificationservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Repo:  notificationrepository.Provide(),
		}),
		CampSvc: campservice.New(campservice.Params{
			DB:               db,
			Log:              log,
			GenID:            node,
			Repo:             camprepository.Provide(),
			RegistrationRepo: camprepository.ProvideRegistrations(),
		}),
	})
	s.RegisterRoutes()

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func createInventory(t *testing.T, engine *gin.Engine, bloodType string, units int) map[string]any {
	t.Helper()

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/create", gin.H{
		"bloodType":    bloodType,
		"units":        units,
		"donorName":    "Asha Rao",
		"donorPhone":   "9876543210",
		"donorAge":     29,
		"donationDate": "2026-08-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return body["bloodInventory"].(map[string]any)
}

func TestCreateBloodInventory(t *testing.T) {
	engine := newTestServer(t, "srv_inv_create")

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/create", gin.H{
		"bloodType":    "O+",
		"units":        10,
		"donorName":    "Asha Rao",
		"donorPhone":   "9876543210",
		"donorAge":     29,
		"donationDate": "2026-08-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Blood inventory entry created successfully", body["message"])
	assert.Equal(t, float64(http.StatusCreated), body["statusCode"])

	entry := body["bloodInventory"].(map[string]any)
	assert.Regexp(t, `^BP\d{11}$`, entry["packetId"])
	assert.Equal(t, float64(10), entry["units"])
}

func TestCreateBloodInventoryValidation(t *testing.T) {
	engine := newTestServer(t, "srv_inv_create_invalid")

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/create", gin.H{
		"bloodType": "O+",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All required fields must be provided", body["message"])
	assert.Equal(t, float64(http.StatusBadRequest), body["statusCode"])
}

func TestIssueBloodFlatResponse(t *testing.T) {
	engine := newTestServer(t, "srv_issue_flat")
	createInventory(t, engine, "O+", 10)

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/issue", gin.H{
		"bloodType":    "O+",
		"unitsToIssue": 3,
		"doctorName":   "Dr. Mehta",
		"patientName":  "Ravi",
		"reason":       "surgery",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Blood issued successfully", body["message"])
	assert.Equal(t, "O+", body["bloodType"])
	assert.Equal(t, float64(3), body["unitsIssued"])
	assert.Equal(t, float64(7), body["remainingUnits"])
	assert.Equal(t, "Dr. Mehta", body["doctorName"])
}

func TestIssueBloodInsufficientStock(t *testing.T) {
	engine := newTestServer(t, "srv_issue_insufficient")
	createInventory(t, engine, "A-", 2)

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/issue", gin.H{
		"bloodType":    "A-",
		"unitsToIssue": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough units in stock", body["message"])
	assert.Equal(t, float64(2), body["availableUnits"])
	assert.Equal(t, float64(http.StatusBadRequest), body["statusCode"])
}

func TestIssueBloodUnknownType(t *testing.T) {
	engine := newTestServer(t, "srv_issue_unknown")

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-inventory/issue", gin.H{
		"bloodType":    "AB-",
		"unitsToIssue": 1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blood type not found in inventory", body["message"])
}

func TestIssueBloodWithLedger(t *testing.T) {
	engine := newTestServer(t, "srv_issue_ledger")
	createInventory(t, engine, "B+", 6)

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-issues/issue", gin.H{
		"bloodType":    "B+",
		"unitsToIssue": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Blood issued and transaction saved successfully", body["message"])

	issue := body["bloodIssue"].(map[string]any)
	assert.Equal(t, float64(2), issue["unitsIssued"])
	assert.Equal(t, float64(4), issue["remainingUnits"])

	rec, body = doJSON(t, engine, http.MethodGet, "/blood-issues/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Len(t, body["bloodIssues"].([]any), 1)
}

func TestStockSummaryEndpoint(t *testing.T) {
	engine := newTestServer(t, "srv_summary")
	createInventory(t, engine, "O+", 5)
	createInventory(t, engine, "O+", 3)
	createInventory(t, engine, "AB-", 2)

	rec, body := doJSON(t, engine, http.MethodGet, "/blood-inventory/summary/stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := body["summary"].([]any)
	require.Len(t, summary, 2)
	first := summary[0].(map[string]any)
	assert.Equal(t, "AB-", first["bloodType"])
	assert.Equal(t, float64(2), first["totalUnits"])
	second := summary[1].(map[string]any)
	assert.Equal(t, "O+", second["bloodType"])
	assert.Equal(t, float64(8), second["totalUnits"])
	assert.Equal(t, float64(2), second["totalPackets"])
}

func TestSearchBloodByPacketID(t *testing.T) {
	engine := newTestServer(t, "srv_search")
	entry := createInventory(t, engine, "O+", 5)
	packetID := entry["packetId"].(string)

	// The search is case insensitive and matches substrings.
	rec, body := doJSON(t, engine, http.MethodGet, "/blood-inventory/search/"+packetID[2:8], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := body["bloodInventory"].(map[string]any)
	assert.Equal(t, packetID, found["packetId"])

	rec, body = doJSON(t, engine, http.MethodGet, "/blood-inventory/search/zzzz", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blood inventory entry not found", body["message"])
}

func TestGetBloodInventoryErrors(t *testing.T) {
	engine := newTestServer(t, "srv_inv_errors")

	rec, body := doJSON(t, engine, http.MethodGet, "/blood-inventory/not-a-number", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", body["message"])

	rec, body = doJSON(t, engine, http.MethodGet, "/blood-inventory/123456789", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blood inventory entry not found", body["message"])
}

func TestBloodRequestFlow(t *testing.T) {
	engine := newTestServer(t, "srv_request_flow")

	rec, body := doJSON(t, engine, http.MethodPost, "/blood-requests/create", gin.H{
		"user":             "user-1",
		"patientName":      "Ravi Kumar",
		"age":              42,
		"gender":           "male",
		"bloodType":        "B+",
		"unitsRequired":    2,
		"urgencyLevel":     "high",
		"wardNumber":       "C-12",
		"contactNumber":    "9876543210",
		"medicalCondition": "scheduled surgery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	request := body["bloodRequest"].(map[string]any)
	assert.Equal(t, "pending", request["status"])
	id := request["id"].(string)

	rec, body = doJSON(t, engine, http.MethodPatch, "/blood-requests/update-status/"+id, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", body["bloodRequest"].(map[string]any)["status"])

	rec, body = doJSON(t, engine, http.MethodGet, "/blood-requests/get-by-user/user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = doJSON(t, engine, http.MethodPatch, "/blood-requests/update-status/"+id, gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status is required", body["message"])
}

func TestCampRegistrationConflict(t *testing.T) {
	engine := newTestServer(t, "srv_camp_conflict")

	rec, body := doJSON(t, engine, http.MethodPost, "/camps/create", gin.H{
		"campName":      "City Hall Drive",
		"place":         "Town Hall",
		"date":          "2026-09-20",
		"time":          "09:00",
		"contactNumber": "9876543210",
		"emailAddress":  "drive@example.org",
		"organizer":     "Red Crescent Society",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	campID := body["camp"].(map[string]any)["id"].(string)

	rec, _ = doJSON(t, engine, http.MethodPost, "/camp-registrations/register", gin.H{
		"userId": "user-1",
		"campId": campID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = doJSON(t, engine, http.MethodPost, "/camp-registrations/register", gin.H{
		"userId": "user-1",
		"campId": campID,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already registered for this camp", body["message"])
	assert.Equal(t, float64(http.StatusConflict), body["statusCode"])
}

func TestNotificationEndpoints(t *testing.T) {
	engine := newTestServer(t, "srv_notifications")

	rec, body := doJSON(t, engine, http.MethodPost, "/notifications/create", gin.H{
		"user":    "user-1",
		"type":    "blood-request",
		"message": "New blood request created",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["notification"].(map[string]any)["id"].(string)

	rec, _ = doJSON(t, engine, http.MethodPatch, "/notifications/mark-read/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, engine, http.MethodGet, "/notifications/get-by-user/user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifications := body["notifications"].([]any)
	require.Len(t, notifications, 1)
	assert.Equal(t, "read", notifications[0].(map[string]any)["status"])

	rec, body = doJSON(t, engine, http.MethodDelete, "/notifications/delete/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, engine, http.MethodDelete, "/notifications/delete/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found", body["message"])
}

func TestListCountsStartEmpty(t *testing.T) {
	engine := newTestServer(t, "srv_empty_lists")

	for _, path := range []string{
		"/blood-inventory/",
		"/blood-issues/",
		"/blood-requests/get-all",
		"/notifications/get-all",
		"/camps/",
		"/camp-registrations/",
	} {
		rec, body := doJSON(t, engine, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, float64(0), body["count"], fmt.Sprintf("count for %s", path))
	}
}
