package services

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "flotilla/internal/errors"
	"flotilla/internal/logger"
	"flotilla/internal/models"
)

// DefaultWindowMonths is the trailing window for monthly reports when
// the caller does not specify one.
const DefaultWindowMonths = 6

// reportService computes per-investor financial summaries and monthly
// buckets from raw financial records. All aggregation happens in memory
// with exact decimal arithmetic; the database only filters and sorts.
type reportService struct {
	store recordStore
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{store: &gormRecordStore{db: db}}
}

// newReportServiceWithStore wires an alternative gateway, used by tests
// to inject fetch failures.
func newReportServiceWithStore(store recordStore) ReportServicer {
	return &reportService{store: store}
}

// FinancialSummaries computes one summary per investor, sorted by net
// balance descending. Reporting is best-effort: a failed investor fetch
// yields an empty result, failed vehicle or record fetches yield zero
// totals. Either case is reported through Warnings instead of an error
// so a reporting hiccup never breaks dashboard navigation.
func (s *reportService) FinancialSummaries(investorID *string) SummaryReport {
	cache := newFetchCache(s.store)

	// Investors and vehicles are independent; fetch them concurrently.
	var (
		investors []models.User
		vehicles  []models.Vehicle
		invErr    error
		vehErr    error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		investors, invErr = cache.Investors(investorID)
		return invErr
	})
	g.Go(func() error {
		vehicles, vehErr = cache.AssignedVehicles()
		return vehErr
	})
	// Wait collapses both errors into one; the two sources degrade
	// differently, so branch on the per-source errors instead.
	_ = g.Wait()

	var warnings []string
	if invErr != nil {
		logger.Get().Errorw("investor fetch failed, returning empty summaries", "error", invErr)
		return SummaryReport{
			Summaries: []InvestorFinancialSummary{},
			Warnings:  []string{"could not load investors; no summaries available"},
		}
	}
	if vehErr != nil {
		logger.Get().Warnw("vehicle fetch failed, reporting zero totals", "error", vehErr)
		warnings = append(warnings, "could not load vehicles; totals reported as zero")
		vehicles = nil
	}

	vehicleIDs := make([]string, 0, len(vehicles))
	for i := range vehicles {
		vehicleIDs = append(vehicleIDs, vehicles[i].ID)
	}

	records, recErr := cache.Records(vehicleIDs, nil)
	if recErr != nil {
		logger.Get().Warnw("record fetch failed, reporting zero totals", "error", recErr)
		warnings = append(warnings, "could not load financial records; totals reported as zero")
		records = nil
	}

	perVehicle, lastDate := aggregateByVehicle(vehicles, records)

	// Group vehicles under their investors.
	byInvestor := make(map[string][]models.Vehicle)
	for i := range vehicles {
		id := *vehicles[i].AssignedInvestorID
		byInvestor[id] = append(byInvestor[id], vehicles[i])
	}

	summaries := make([]InvestorFinancialSummary, 0, len(investors))
	for i := range investors {
		inv := &investors[i]
		summary := InvestorFinancialSummary{
			InvestorID:   inv.ID,
			InvestorName: inv.DisplayName(),
			Email:        inv.Email,
			Vehicles:     []VehicleFinancials{},
		}

		for _, v := range byInvestor[inv.ID] {
			vf := perVehicle[v.ID]
			summary.Vehicles = append(summary.Vehicles, vf)
			summary.TotalIncome = summary.TotalIncome.Add(vf.TotalIncome)
			summary.TotalExpenses = summary.TotalExpenses.Add(vf.TotalExpenses)

			if d, ok := lastDate[v.ID]; ok {
				if summary.LastTransactionDate == nil || d.After(*summary.LastTransactionDate) {
					t := d
					summary.LastTransactionDate = &t
				}
			}
		}
		summary.VehicleCount = len(summary.Vehicles)
		summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].NetBalance.GreaterThan(summaries[j].NetBalance)
	})

	return SummaryReport{Summaries: summaries, Warnings: warnings}
}

// aggregateByVehicle partitions records per vehicle by type and sums
// each partition with exact decimal arithmetic. Vehicles with no
// records get explicit zero totals.
func aggregateByVehicle(vehicles []models.Vehicle, records []models.FinancialRecord) (map[string]VehicleFinancials, map[string]time.Time) {
	perVehicle := make(map[string]VehicleFinancials, len(vehicles))
	lastDate := make(map[string]time.Time)

	for i := range vehicles {
		v := &vehicles[i]
		perVehicle[v.ID] = VehicleFinancials{
			VehicleID:    v.ID,
			Name:         v.DisplayName(),
			LicensePlate: v.LicensePlate,
		}
	}

	for i := range records {
		r := &records[i]
		vf, ok := perVehicle[r.VehicleID]
		if !ok {
			continue
		}

		switch r.Type {
		case models.RecordTypeIncome:
			vf.TotalIncome = vf.TotalIncome.Add(r.Amount)
		case models.RecordTypeExpense:
			vf.TotalExpenses = vf.TotalExpenses.Add(r.Amount)
		}
		vf.TransactionCount++
		perVehicle[r.VehicleID] = vf

		if d, ok := lastDate[r.VehicleID]; !ok || r.Date.After(d) {
			lastDate[r.VehicleID] = r.Date
		}
	}

	for id, vf := range perVehicle {
		vf.NetBalance = vf.TotalIncome.Sub(vf.TotalExpenses)
		perVehicle[id] = vf
	}

	return perVehicle, lastDate
}

// MonthlyFinancials groups an investor's records of the trailing window
// into calendar-month buckets keyed "YYYY-MM". Buckets appear in order
// of first occurrence, which is ascending date order since records are
// fetched oldest first. Months without activity are not synthesized;
// charting clients tolerate the gaps.
func (s *reportService) MonthlyFinancials(investorID string, windowMonths int) ([]MonthlyBucket, error) {
	if windowMonths < 1 {
		windowMonths = DefaultWindowMonths
	}

	cache := newFetchCache(s.store)

	vehicles, err := s.investorVehicles(cache, investorID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return []MonthlyBucket{}, nil
	}

	vehicleIDs := make([]string, 0, len(vehicles))
	for i := range vehicles {
		vehicleIDs = append(vehicleIDs, vehicles[i].ID)
	}

	// Calendar-month arithmetic, not fixed 30-day multiples.
	since := time.Now().AddDate(0, -windowMonths, 0)
	records, err := cache.Records(vehicleIDs, &since)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	buckets := make([]MonthlyBucket, 0)
	index := make(map[string]int)
	for i := range records {
		r := &records[i]
		month := r.Date.Format("2006-01")

		pos, ok := index[month]
		if !ok {
			pos = len(buckets)
			index[month] = pos
			buckets = append(buckets, MonthlyBucket{Month: month})
		}

		switch r.Type {
		case models.RecordTypeIncome:
			buckets[pos].Income = buckets[pos].Income.Add(r.Amount)
		case models.RecordTypeExpense:
			buckets[pos].Expenses = buckets[pos].Expenses.Add(r.Amount)
		}
	}

	for i := range buckets {
		buckets[i].Net = buckets[i].Income.Sub(buckets[i].Expenses)
	}

	return buckets, nil
}

// InvestorTransactions returns the investor's full transaction list,
// oldest first, with each record's vehicle attached for display.
func (s *reportService) InvestorTransactions(investorID string) ([]models.FinancialRecord, error) {
	cache := newFetchCache(s.store)

	vehicles, err := s.investorVehicles(cache, investorID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return []models.FinancialRecord{}, nil
	}

	byID := make(map[string]models.Vehicle, len(vehicles))
	vehicleIDs := make([]string, 0, len(vehicles))
	for i := range vehicles {
		byID[vehicles[i].ID] = vehicles[i]
		vehicleIDs = append(vehicleIDs, vehicles[i].ID)
	}

	records, err := cache.Records(vehicleIDs, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range records {
		records[i].Vehicle = byID[records[i].VehicleID]
	}
	return records, nil
}

// investorVehicles resolves the investor and the vehicles assigned to
// them. The gateway exposes only the assigned-vehicle fetch, so the
// per-investor filter happens in memory.
func (s *reportService) investorVehicles(cache *fetchCache, investorID string) ([]models.Vehicle, error) {
	investors, err := cache.Investors(&investorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(investors) == 0 {
		return nil, apperrors.ErrInvestorNotFound
	}

	vehicles, err := cache.AssignedVehicles()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	owned := make([]models.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		if *vehicles[i].AssignedInvestorID == investorID {
			owned = append(owned, vehicles[i])
		}
	}
	return owned, nil
}
