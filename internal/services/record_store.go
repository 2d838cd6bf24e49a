package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"flotilla/internal/models"
)

// recordStore is the narrow read gateway the reporting engine depends
// on. Keeping it an interface lets tests inject fetch failures to
// exercise the degrade paths.
type recordStore interface {
	ListInvestors(idFilter *string) ([]models.User, error)
	ListAssignedVehicles() ([]models.Vehicle, error)
	ListFinancialRecords(vehicleIDs []string, since *time.Time) ([]models.FinancialRecord, error)
}

// gormRecordStore implements recordStore over the application database.
type gormRecordStore struct {
	db *gorm.DB
}

// ListInvestors returns active investors, ordered by full name when no
// id filter is given.
func (g *gormRecordStore) ListInvestors(idFilter *string) ([]models.User, error) {
	q := g.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.UserRoleInvestor, true)
	if idFilter != nil {
		q = q.Where("id = ?", *idFilter)
	} else {
		q = q.Order("full_name ASC")
	}

	var investors []models.User
	if err := q.Find(&investors).Error; err != nil {
		return nil, err
	}
	return investors, nil
}

// ListAssignedVehicles returns every vehicle with a non-null assigned
// investor. Unassigned vehicles never appear in reports.
func (g *gormRecordStore) ListAssignedVehicles() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := g.db.Where("assigned_investor_id IS NOT NULL").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListFinancialRecords returns records for the given vehicles, oldest
// first. An empty vehicle set short-circuits without touching the store.
func (g *gormRecordStore) ListFinancialRecords(vehicleIDs []string, since *time.Time) ([]models.FinancialRecord, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}

	q := g.db.Where("vehicle_id IN ?", vehicleIDs)
	if since != nil {
		q = q.Where("date >= ?", *since)
	}

	var records []models.FinancialRecord
	if err := q.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// fetchCache memoizes gateway reads for the duration of a single report
// request, so the JSON endpoint and an export triggered from the same
// request never refetch. It is created per call and discarded with it;
// never share one across requests.
type fetchCache struct {
	store recordStore

	investors    map[string][]models.User
	investorsErr map[string]error

	vehicles     []models.Vehicle
	vehiclesErr  error
	vehiclesDone bool

	records    map[string][]models.FinancialRecord
	recordsErr map[string]error
}

func newFetchCache(store recordStore) *fetchCache {
	return &fetchCache{
		store:        store,
		investors:    make(map[string][]models.User),
		investorsErr: make(map[string]error),
		records:      make(map[string][]models.FinancialRecord),
		recordsErr:   make(map[string]error),
	}
}

// Investors returns the memoized investor fetch for the given filter.
func (c *fetchCache) Investors(idFilter *string) ([]models.User, error) {
	key := "*"
	if idFilter != nil {
		key = *idFilter
	}
	if rows, ok := c.investors[key]; ok {
		return rows, c.investorsErr[key]
	}

	rows, err := c.store.ListInvestors(idFilter)
	c.investors[key] = rows
	c.investorsErr[key] = err
	return rows, err
}

// AssignedVehicles returns the memoized vehicle fetch.
func (c *fetchCache) AssignedVehicles() ([]models.Vehicle, error) {
	if !c.vehiclesDone {
		c.vehicles, c.vehiclesErr = c.store.ListAssignedVehicles()
		c.vehiclesDone = true
	}
	return c.vehicles, c.vehiclesErr
}

// Records returns the memoized record fetch for the given vehicle set
// and lower bound.
func (c *fetchCache) Records(vehicleIDs []string, since *time.Time) ([]models.FinancialRecord, error) {
	key := strings.Join(vehicleIDs, ",")
	if since != nil {
		key += "|" + since.Format(time.RFC3339)
	}
	if rows, ok := c.records[key]; ok {
		return rows, c.recordsErr[key]
	}

	rows, err := c.store.ListFinancialRecords(vehicleIDs, since)
	c.records[key] = rows
	c.recordsErr[key] = err
	return rows, err
}
