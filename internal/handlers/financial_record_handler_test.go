package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/models"
	"flotilla/internal/pagination"
	"flotilla/internal/services"
)

type mockRecordService struct {
	createRecordFn  func(vehicleID string, recordType models.RecordType, category string, amount decimal.Decimal, date time.Time, description string) (*models.FinancialRecord, error)
	getRecordByIDFn func(recordID string) (*models.FinancialRecord, error)
	listRecordsFn   func(page pagination.PageRequest, filter services.RecordFilter) (*pagination.PageResponse[models.FinancialRecord], error)
	updateRecordFn  func(recordID string, category *string, amount *decimal.Decimal, date *time.Time, description *string) (*models.FinancialRecord, error)
	deleteRecordFn  func(recordID string) error
}

func (m *mockRecordService) CreateRecord(vehicleID string, recordType models.RecordType, category string, amount decimal.Decimal, date time.Time, description string) (*models.FinancialRecord, error) {
	if m.createRecordFn != nil {
		return m.createRecordFn(vehicleID, recordType, category, amount, date, description)
	}
	return &models.FinancialRecord{
		Base: models.Base{ID: "0198c5a0-9e42-70aa-b512-66d1b2a9f003"}, VehicleID: vehicleID,
		Type: recordType, Category: category, Amount: amount, Date: date, Description: description,
	}, nil
}

func (m *mockRecordService) GetRecordByID(recordID string) (*models.FinancialRecord, error) {
	if m.getRecordByIDFn != nil {
		return m.getRecordByIDFn(recordID)
	}
	return &models.FinancialRecord{Base: models.Base{ID: recordID}, Type: models.RecordTypeIncome, Amount: decimal.NewFromInt(100)}, nil
}

func (m *mockRecordService) ListRecords(page pagination.PageRequest, filter services.RecordFilter) (*pagination.PageResponse[models.FinancialRecord], error) {
	if m.listRecordsFn != nil {
		return m.listRecordsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.FinancialRecord{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRecordService) UpdateRecord(recordID string, category *string, amount *decimal.Decimal, date *time.Time, description *string) (*models.FinancialRecord, error) {
	if m.updateRecordFn != nil {
		return m.updateRecordFn(recordID, category, amount, date, description)
	}
	return &models.FinancialRecord{Base: models.Base{ID: recordID}}, nil
}

func (m *mockRecordService) DeleteRecord(recordID string) error {
	if m.deleteRecordFn != nil {
		return m.deleteRecordFn(recordID)
	}
	return nil
}

var _ services.FinancialRecordServicer = (*mockRecordService)(nil)

func setupRecordRouter(handler *FinancialRecordHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testAdminID, models.UserRoleAdmin))
	auth.POST("/records", handler.CreateRecord)
	auth.GET("/records", handler.ListRecords)
	auth.GET("/records/:id", handler.GetRecord)
	auth.PUT("/records/:id", handler.UpdateRecord)
	auth.DELETE("/records/:id", handler.DeleteRecord)
	return r
}

func TestFinancialRecordHandler_CreateRecord(t *testing.T) {
	t.Run("returns 201 and parses bare date", func(t *testing.T) {
		var gotDate time.Time
		handler := NewFinancialRecordHandler(&mockRecordService{
			createRecordFn: func(vehicleID string, recordType models.RecordType, category string, amount decimal.Decimal, date time.Time, description string) (*models.FinancialRecord, error) {
				gotDate = date
				return &models.FinancialRecord{Base: models.Base{ID: "0198c5a0-9e42-70aa-b512-66d1b2a9f003"}, VehicleID: vehicleID, Type: recordType, Amount: amount, Date: date}, nil
			},
		}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPost, "/records",
			`{"vehicle_id":"`+testVehicleID+`","type":"income","category":"rental","amount":"500.25","date":"2024-03-01","description":"Weekly rental"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDate.Year() != 2024 || gotDate.Month() != time.March {
			t.Errorf("unexpected parsed date: %v", gotDate)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPost, "/records",
			`{"vehicle_id":"`+testVehicleID+`","type":"transfer","category":"rental","amount":"10","date":"2024-03-01"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPost, "/records",
			`{"vehicle_id":"`+testVehicleID+`","type":"income","category":"rental","amount":"10","date":"March 1st"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{
			createRecordFn: func(_ string, _ models.RecordType, _ string, _ decimal.Decimal, _ time.Time, _ string) (*models.FinancialRecord, error) {
				return nil, apperrors.ErrNegativeAmount
			},
		}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPost, "/records",
			`{"vehicle_id":"`+testVehicleID+`","type":"expense","category":"repairs","amount":"-10","date":"2024-03-01"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		body := parseJSON(t, rec)
		errObj := body["error"].(map[string]interface{})
		if errObj["code"] != "NEGATIVE_AMOUNT" {
			t.Errorf("expected NEGATIVE_AMOUNT, got %v", errObj["code"])
		}
	})
}

func TestFinancialRecordHandler_ListRecords(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.RecordFilter
		handler := NewFinancialRecordHandler(&mockRecordService{
			listRecordsFn: func(_ pagination.PageRequest, filter services.RecordFilter) (*pagination.PageResponse[models.FinancialRecord], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.FinancialRecord{}, 1, 20, 0)
				return &resp, nil
			},
		}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodGet, "/records?type=expense&category=repairs&from=2024-01-01", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.RecordTypeExpense {
			t.Error("expected expense type filter")
		}
		if gotFilter.Category == nil || *gotFilter.Category != "repairs" {
			t.Error("expected category filter")
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.Year() != 2024 {
			t.Error("expected from-date filter")
		}
	})

	t.Run("returns 400 on unknown type filter", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodGet, "/records?type=transfer", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestFinancialRecordHandler_UpdateRecord(t *testing.T) {
	t.Run("returns 200 with updated record", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPut, "/records/0198c5a0-9e42-70aa-b512-66d1b2a9f003", `{"amount":"750.50"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 for unknown record", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{
			updateRecordFn: func(_ string, _ *string, _ *decimal.Decimal, _ *time.Time, _ *string) (*models.FinancialRecord, error) {
				return nil, apperrors.ErrRecordNotFound
			},
		}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodPut, "/records/0198c5a0-9e42-70aa-b512-66d1b2a9f003", `{"category":"fees"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestFinancialRecordHandler_DeleteRecord(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		handler := NewFinancialRecordHandler(&mockRecordService{}, &mockAuditService{})
		r := setupRecordRouter(handler)

		rec := doRequest(r, http.MethodDelete, "/records/0198c5a0-9e42-70aa-b512-66d1b2a9f003", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
