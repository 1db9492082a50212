package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-portal/internal/services"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/eventbus"
	"equipment-portal/pkg/filestorage"
	"equipment-portal/pkg/service"
	"equipment-portal/pkg/validation"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Body    json.RawMessage `json:"body"`
}

type PortalRoutesSuite struct {
	suite.Suite
	Echo   *echo.Echo
	Bus    *eventbus.Bus
	JWT    service.JWTService
	tokens map[string]string

	EquipmentID string
}

func TestPortalRoutesSuite(t *testing.T) {
	suite.Run(t, new(PortalRoutesSuite))
}

func (s *PortalRoutesSuite) SetupTest() {
	logger := zap.NewNop()
	clock := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	storage := store.New(store.NewMemoryBackend(), store.WithClock(func() time.Time { return clock }))

	s.Bus = eventbus.New(logger)
	svc := services.NewServices(storage, s.Bus, services.NewRosterDirectory(nil), logger)

	fileStorage, err := filestorage.NewLocalFileStorage(s.T().TempDir())
	s.Require().NoError(err)

	s.JWT = service.NewJWTService("test-secret", time.Hour)
	s.Echo = echo.New()
	s.Echo.Validator = validation.New()
	InitRouter(s.Echo, svc, fileStorage, s.JWT, logger)

	s.tokens = map[string]string{}
	for name, identity := range map[string]struct {
		id   uint64
		role string
	}{
		"admin":      {1, constants.RoleAdmin},
		"technician": {7, constants.RoleTechnician},
		"reporter":   {20, constants.RoleUser},
		"student":    {21, constants.RoleUser},
	} {
		token, err := s.JWT.GenerateAccessToken(identity.id, identity.role)
		s.Require().NoError(err)
		s.tokens[name] = token
	}

	category := s.mustOK(s.do(http.MethodPost, "/api/categories", "admin", map[string]interface{}{
		"name": "Projectors",
	}), http.StatusCreated)
	equipment := s.mustOK(s.do(http.MethodPost, "/api/equipment", "admin", map[string]interface{}{
		"name":        "Epson EB-X06",
		"category_id": category["id"],
		"quantity":    1,
		"location":    "Room 101",
	}), http.StatusCreated)
	s.EquipmentID = equipment["id"].(string)
}

func (s *PortalRoutesSuite) TearDownTest() {
	s.Bus.Wait()
}

func (s *PortalRoutesSuite) do(method, path, who string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if who != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.tokens[who])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *PortalRoutesSuite) decode(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// mustOK asserts the status code and returns the body as an object.
func (s *PortalRoutesSuite) mustOK(rec *httptest.ResponseRecorder, code int) map[string]interface{} {
	s.Require().Equal(code, rec.Code, rec.Body.String())
	env := s.decode(rec)
	s.Require().True(env.Status)
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Body, &body))
	return body
}

func (s *PortalRoutesSuite) mustFail(rec *httptest.ResponseRecorder, code int, kind string) {
	s.Require().Equal(code, rec.Code, rec.Body.String())
	env := s.decode(rec)
	s.False(env.Status)
	if kind != "" {
		s.Equal(kind, env.Kind)
	}
}

func (s *PortalRoutesSuite) TestRequiresToken() {
	rec := s.do(http.MethodGet, "/api/equipment", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *PortalRoutesSuite) TestDefectLifecycleOverHTTP() {
	report := s.mustOK(s.do(http.MethodPost, "/api/defects", "reporter", map[string]interface{}{
		"equipment_id":      s.EquipmentID,
		"issue_description": "Lamp flickers",
	}), http.StatusCreated)
	id := report["id"].(string)
	s.Equal(constants.DefectStatusReported, report["status"])

	s.mustOK(s.do(http.MethodPost, "/api/defects/"+id+"/claim", "technician", nil), http.StatusOK)
	s.mustOK(s.do(http.MethodPost, "/api/defects/"+id+"/start", "technician", nil), http.StatusOK)
	s.mustOK(s.do(http.MethodPost, "/api/defects/"+id+"/complete", "technician", map[string]interface{}{
		"work_performed": "Replaced lamp",
	}), http.StatusOK)
	verified := s.mustOK(s.do(http.MethodPost, "/api/defects/"+id+"/verify", "admin", map[string]interface{}{
		"notes": "ok",
	}), http.StatusOK)
	s.Equal(constants.DefectStatusVerified, verified["status"])

	s.mustFail(s.do(http.MethodPost, "/api/defects/"+id+"/verify", "admin", nil), http.StatusConflict, "invalid_transition")

	s.Bus.Wait()
	count := s.mustOK(s.do(http.MethodGet, "/api/notifications/unread-count", "reporter", nil), http.StatusOK)
	s.EqualValues(1, count["unread"])
}

func (s *PortalRoutesSuite) TestDefectTransitionRoles() {
	report := s.mustOK(s.do(http.MethodPost, "/api/defects", "reporter", map[string]interface{}{
		"equipment_id":      s.EquipmentID,
		"issue_description": "Remote missing",
	}), http.StatusCreated)
	id := report["id"].(string)

	s.mustFail(s.do(http.MethodPost, "/api/defects/"+id+"/assign", "student", map[string]interface{}{
		"technician_id": 7,
	}), http.StatusForbidden, "unauthorized")
	s.mustFail(s.do(http.MethodPost, "/api/defects/"+id+"/assign", "admin", map[string]interface{}{}), http.StatusBadRequest, "")
	s.mustFail(s.do(http.MethodPost, "/api/defects/DR-missing/claim", "technician", nil), http.StatusNotFound, "not_found")
}

func (s *PortalRoutesSuite) TestReservationConflictOverHTTP() {
	first := s.mustOK(s.do(http.MethodPost, "/api/reservations", "reporter", map[string]interface{}{
		"equipment_id": s.EquipmentID,
		"quantity":     1,
		"start_date":   "2026-03-01",
		"end_date":     "2026-03-05",
	}), http.StatusCreated)
	s.Equal(constants.ReservationStatusPending, first["status"])

	s.mustFail(s.do(http.MethodPost, "/api/reservations", "student", map[string]interface{}{
		"equipment_id": s.EquipmentID,
		"quantity":     1,
		"start_date":   "2026-03-05",
		"end_date":     "2026-03-07",
	}), http.StatusConflict, "conflict")

	availability := s.mustOK(s.do(http.MethodGet,
		"/api/equipment/"+s.EquipmentID+"/availability?start_date=2026-03-06&end_date=2026-03-08", "student", nil), http.StatusOK)
	s.Equal(true, availability["available"])

	s.mustFail(s.do(http.MethodPost, "/api/reservations/"+first["id"].(string)+"/approve", "student", nil), http.StatusForbidden, "unauthorized")
	approved := s.mustOK(s.do(http.MethodPost, "/api/reservations/"+first["id"].(string)+"/approve", "admin", nil), http.StatusOK)
	s.Equal(constants.ReservationStatusApproved, approved["status"])
}

func (s *PortalRoutesSuite) TestReservationValidation() {
	s.mustFail(s.do(http.MethodPost, "/api/reservations", "reporter", map[string]interface{}{
		"equipment_id": s.EquipmentID,
		"quantity":     1,
		"start_date":   "03/01/2026",
		"end_date":     "2026-03-05",
	}), http.StatusBadRequest, "validation")
}

func (s *PortalRoutesSuite) TestReservationListIsScopedForUsers() {
	s.mustOK(s.do(http.MethodPost, "/api/reservations", "reporter", map[string]interface{}{
		"equipment_id": s.EquipmentID,
		"quantity":     1,
		"start_date":   "2026-04-01",
		"end_date":     "2026-04-02",
	}), http.StatusCreated)

	own := s.mustOK(s.do(http.MethodGet, "/api/reservations", "student", nil), http.StatusOK)
	s.Empty(own["list"])

	all := s.mustOK(s.do(http.MethodGet, "/api/reservations", "admin", nil), http.StatusOK)
	s.Len(all["list"], 1)
}

func (s *PortalRoutesSuite) upload(path, who, filename string, content []byte) *httptest.ResponseRecorder {
	return s.uploadField(path, who, "files", filename, content)
}

func (s *PortalRoutesSuite) uploadField(path, who, field, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.tokens[who])
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *PortalRoutesSuite) TestCompletionPhotoUpload() {
	report := s.mustOK(s.do(http.MethodPost, "/api/defects", "reporter", map[string]interface{}{
		"equipment_id":      s.EquipmentID,
		"issue_description": "Cracked housing",
	}), http.StatusCreated)
	id := report["id"].(string)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	s.mustFail(s.upload("/api/defects/"+id+"/photos", "technician", "after.png", png), http.StatusForbidden, "unauthorized")

	s.mustOK(s.do(http.MethodPost, "/api/defects/"+id+"/claim", "technician", nil), http.StatusOK)

	result := s.mustOK(s.upload("/api/defects/"+id+"/photos", "technician", "after.png", png), http.StatusCreated)
	s.Len(result["paths"], 1)

	s.mustFail(s.upload("/api/defects/"+id+"/photos", "technician", "notes.txt", []byte("plain text")), http.StatusBadRequest, "validation")
}

func (s *PortalRoutesSuite) TestNotificationsReadFlow() {
	report := s.mustOK(s.do(http.MethodPost, "/api/defects", "reporter", map[string]interface{}{
		"equipment_id":      s.EquipmentID,
		"issue_description": "No signal",
	}), http.StatusCreated)
	s.mustOK(s.do(http.MethodPost, "/api/defects/"+report["id"].(string)+"/assign", "admin", map[string]interface{}{
		"technician_id": 7,
	}), http.StatusOK)

	list := s.mustOK(s.do(http.MethodGet, "/api/notifications", "technician", nil), http.StatusOK)
	items := list["list"].([]interface{})
	s.Require().Len(items, 1)
	notification := items[0].(map[string]interface{})
	s.Equal(constants.NotificationTaskAssigned, notification["type"])

	s.mustFail(s.do(http.MethodPost, "/api/notifications/"+notification["id"].(string)+"/read", "student", nil), http.StatusForbidden, "unauthorized")
	read := s.mustOK(s.do(http.MethodPost, "/api/notifications/"+notification["id"].(string)+"/read", "technician", nil), http.StatusOK)
	s.Equal(true, read["is_read"])

	marked := s.mustOK(s.do(http.MethodPost, "/api/notifications/read-all", "technician", nil), http.StatusOK)
	s.EqualValues(0, marked["updated"])
}

func (s *PortalRoutesSuite) TestEquipmentImport() {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	s.Require().NoError(f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Category", "Quantity", "Location"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A2", &[]interface{}{"Epson EB-X06", "Projectors", 3, "Room 102"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A3", &[]interface{}{"USB microphone", "Audio", 5, "Store B"}))
	buf, err := f.WriteToBuffer()
	s.Require().NoError(err)
	s.Require().NoError(f.Close())

	s.mustFail(s.uploadField("/api/equipment/import", "student", "file", "stock.xlsx", buf.Bytes()), http.StatusForbidden, "unauthorized")
	s.mustFail(s.uploadField("/api/equipment/import", "admin", "file", "stock.csv", []byte("name,quantity\n")), http.StatusBadRequest, "validation")

	result := s.mustOK(s.uploadField("/api/equipment/import", "admin", "file", "stock.xlsx", buf.Bytes()), http.StatusOK)
	s.EqualValues(1, result["created"])
	s.EqualValues(1, result["updated"])
	s.EqualValues(1, result["categories_created"])

	item := s.mustOK(s.do(http.MethodGet, "/api/equipment/"+s.EquipmentID, "student", nil), http.StatusOK)
	s.EqualValues(3, item["quantity"])

	stats := s.mustOK(s.do(http.MethodGet, "/api/dashboard", "admin", nil), http.StatusOK)
	s.Equal(map[string]interface{}{constants.EquipmentStatusAvailable: float64(2)}, stats["equipment_by_status"])
}
