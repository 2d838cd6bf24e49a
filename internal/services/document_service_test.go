package services

import (
	"testing"

	"flotilla/internal/pagination"
	"flotilla/internal/testutil"
)

func TestCreateDocument(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDocumentService(db)

		admin := testutil.CreateTestAdmin(t, db)
		vehicle := testutil.CreateTestVehicle(t, db)

		doc, err := svc.CreateDocument("factura.pdf", "https://storage.test/factura.pdf", "application/pdf", &vehicle.ID, nil, admin.ID)
		testutil.AssertNoError(t, err)
		if doc.ID == "" {
			t.Fatal("expected non-empty document ID")
		}
		if doc.UploadedBy != admin.ID {
			t.Errorf("expected uploader %s, got %s", admin.ID, doc.UploadedBy)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDocumentService(db)

		admin := testutil.CreateTestAdmin(t, db)
		_, err := svc.CreateDocument("", "https://storage.test/x.pdf", "application/pdf", nil, nil, admin.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_vehicle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDocumentService(db)

		admin := testutil.CreateTestAdmin(t, db)
		missing := "0198c5a0-0000-7000-8000-000000000000"
		_, err := svc.CreateDocument("x.pdf", "https://storage.test/x.pdf", "application/pdf", &missing, nil, admin.ID)
		testutil.AssertAppError(t, err, "VEHICLE_NOT_FOUND")
	})

	t.Run("admin_not_valid_as_investor_link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDocumentService(db)

		admin := testutil.CreateTestAdmin(t, db)
		_, err := svc.CreateDocument("x.pdf", "https://storage.test/x.pdf", "application/pdf", nil, &admin.ID, admin.ID)
		testutil.AssertAppError(t, err, "INVESTOR_NOT_FOUND")
	})
}

func TestListDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDocumentService(db)

	admin := testutil.CreateTestAdmin(t, db)
	v1 := testutil.CreateTestVehicle(t, db)
	v2 := testutil.CreateTestVehicle(t, db)
	testutil.CreateTestDocument(t, db, v1.ID, admin.ID)
	testutil.CreateTestDocument(t, db, v2.ID, admin.ID)

	result, err := svc.ListDocuments(pagination.PageRequest{}, &v1.ID, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Fatalf("expected 1 document, got %d", result.TotalItems)
	}

	result, err = svc.ListDocuments(pagination.PageRequest{}, nil, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Fatalf("expected 2 documents, got %d", result.TotalItems)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDocumentService(db)

	admin := testutil.CreateTestAdmin(t, db)
	vehicle := testutil.CreateTestVehicle(t, db)
	doc := testutil.CreateTestDocument(t, db, vehicle.ID, admin.ID)

	testutil.AssertNoError(t, svc.DeleteDocument(doc.ID))
	err := svc.DeleteDocument(doc.ID)
	testutil.AssertAppError(t, err, "DOCUMENT_NOT_FOUND")
}
