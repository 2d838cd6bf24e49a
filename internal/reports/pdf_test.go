package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"flotilla/internal/models"
	"flotilla/internal/services"
	"flotilla/internal/testutil"
)

func TestPaginate(t *testing.T) {
	t.Run("fits_on_one_page", func(t *testing.T) {
		pages := paginate([]float64{10, 20, 30}, 100)
		for i, p := range pages {
			if p != 0 {
				t.Errorf("block %d: expected page 0, got %d", i, p)
			}
		}
	})

	t.Run("breaks_when_block_does_not_fit", func(t *testing.T) {
		pages := paginate([]float64{60, 60, 60}, 100)
		want := []int{0, 1, 2}
		for i := range want {
			if pages[i] != want[i] {
				t.Errorf("block %d: expected page %d, got %d", i, want[i], pages[i])
			}
		}
	})

	t.Run("oversized_block_gets_own_page", func(t *testing.T) {
		pages := paginate([]float64{10, 500, 10}, 100)
		if pages[0] != 0 || pages[1] != 1 || pages[2] != 2 {
			t.Errorf("unexpected assignment: %v", pages)
		}
	})

	t.Run("many_rows_split_across_pages", func(t *testing.T) {
		heights := make([]float64, 100)
		for i := range heights {
			heights[i] = 7
		}
		pages := paginate(heights, 257)

		if pages[0] != 0 {
			t.Errorf("first block should start page 0, got %d", pages[0])
		}
		if pages[len(pages)-1] < 1 {
			t.Error("expected the table to spill onto later pages")
		}
		for i := 1; i < len(pages); i++ {
			if pages[i] < pages[i-1] {
				t.Fatalf("page assignment went backwards at block %d", i)
			}
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if pages := paginate(nil, 100); len(pages) != 0 {
			t.Errorf("expected no assignments, got %v", pages)
		}
	})
}

func statementFixture(transactions int) StatementData {
	plate := "ABC-123"
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]Row, 0, transactions)
	for i := 0; i < transactions; i++ {
		rows = append(rows, Row{
			Date:        last.AddDate(0, 0, -i),
			Type:        models.RecordTypeIncome,
			Category:    "rental",
			VehicleName: "Ford Mustang",
			Amount:      decimal.NewFromInt(100),
			Description: "Weekly rental",
		})
	}

	return StatementData{
		Summary: services.InvestorFinancialSummary{
			InvestorID:          "inv-1",
			InvestorName:        "Ana Torres",
			Email:               "ana@example.com",
			VehicleCount:        1,
			TotalIncome:         decimal.NewFromInt(100 * int64(transactions)),
			TotalExpenses:       decimal.Zero,
			NetBalance:          decimal.NewFromInt(100 * int64(transactions)),
			LastTransactionDate: &last,
			Vehicles: []services.VehicleFinancials{{
				VehicleID:        "veh-1",
				Name:             "Ford Mustang",
				LicensePlate:     &plate,
				TotalIncome:      decimal.NewFromInt(100 * int64(transactions)),
				TotalExpenses:    decimal.Zero,
				NetBalance:       decimal.NewFromInt(100 * int64(transactions)),
				TransactionCount: transactions,
			}},
		},
		Buckets: []services.MonthlyBucket{
			{Month: "2024-02", Income: decimal.NewFromInt(400), Expenses: decimal.NewFromInt(50), Net: decimal.NewFromInt(350)},
			{Month: "2024-03", Income: decimal.NewFromInt(100), Expenses: decimal.Zero, Net: decimal.NewFromInt(100)},
		},
		Transactions: rows,
		GeneratedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildBlocks(t *testing.T) {
	t.Run("totals_table_follows_summary_metrics", func(t *testing.T) {
		data := statementFixture(5)
		blocks := buildBlocks(data)

		want := 5 + // title, identity, metrics, totals section, totals table
			2 + len(data.Summary.Vehicles) +
			2 + len(data.Buckets) +
			2 + len(data.Transactions)
		if len(blocks) != want {
			t.Fatalf("expected %d blocks, got %d", want, len(blocks))
		}

		wantHeight := float64(len(totalsRows(data.Summary))) * 7
		if blocks[4].height != wantHeight {
			t.Errorf("expected totals table height %.0f after the metrics box, got %.0f", wantHeight, blocks[4].height)
		}
	})

	t.Run("totals_table_emitted_without_vehicles", func(t *testing.T) {
		data := statementFixture(0)
		data.Buckets = nil
		data.Transactions = nil
		data.Summary.Vehicles = nil
		data.Summary.LastTransactionDate = nil

		blocks := buildBlocks(data)
		if len(blocks) != 5 {
			t.Fatalf("expected 5 blocks, got %d", len(blocks))
		}
	})
}

func TestTotalsRows(t *testing.T) {
	data := statementFixture(3)

	rows := totalsRows(data.Summary)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Ingresos totales" || rows[0][1] != "$300.00" {
		t.Errorf("unexpected income row: %v", rows[0])
	}
	if rows[2][0] != "Balance neto" || rows[2][1] != "$300.00" {
		t.Errorf("unexpected net row: %v", rows[2])
	}
	if rows[3][0] != "Transacciones" || rows[3][1] != "3" {
		t.Errorf("expected transaction count row, got %v", rows[3])
	}
	if rows[4][0] != "Última transacción" || rows[4][1] != "01/03/2024" {
		t.Errorf("unexpected last transaction row: %v", rows[4])
	}

	data.Summary.LastTransactionDate = nil
	if rows := totalsRows(data.Summary); len(rows) != 4 {
		t.Errorf("expected 4 rows without a last transaction date, got %d", len(rows))
	}
}

func TestVehicleRowCells(t *testing.T) {
	plate := "ABC-123"
	cells := vehicleRowCells(services.VehicleFinancials{
		Name:             "Ford Mustang",
		LicensePlate:     &plate,
		TotalIncome:      decimal.NewFromInt(700),
		TotalExpenses:    decimal.NewFromInt(100),
		NetBalance:       decimal.NewFromInt(600),
		TransactionCount: 7,
	})

	want := []string{"Ford Mustang", "ABC-123", "$700.00", "$100.00", "$600.00", "7"}
	if len(cells) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(cells))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d: expected %q, got %q", i, want[i], cells[i])
		}
	}

	cells = vehicleRowCells(services.VehicleFinancials{Name: "Kia Rio"})
	if cells[1] != "" {
		t.Errorf("expected empty plate cell, got %q", cells[1])
	}
	if cells[5] != "0" {
		t.Errorf("expected zero transaction count, got %q", cells[5])
	}
}

func TestBuildInvestorPDF(t *testing.T) {
	t.Run("produces_pdf_document", func(t *testing.T) {
		doc, err := BuildInvestorPDF(statementFixture(5))
		testutil.AssertNoError(t, err)

		if !bytes.HasPrefix(doc, []byte("%PDF")) {
			t.Fatalf("expected PDF header, got %q", doc[:8])
		}
	})

	t.Run("long_transaction_list_paginates", func(t *testing.T) {
		short, err := BuildInvestorPDF(statementFixture(2))
		testutil.AssertNoError(t, err)

		long, err := BuildInvestorPDF(statementFixture(200))
		testutil.AssertNoError(t, err)

		if len(long) <= len(short) {
			t.Error("expected the long statement to produce a larger document")
		}
	})

	t.Run("renders_without_optional_sections", func(t *testing.T) {
		data := statementFixture(0)
		data.Buckets = nil
		data.Transactions = nil
		data.Summary.Vehicles = nil

		doc, err := BuildInvestorPDF(data)
		testutil.AssertNoError(t, err)
		if !bytes.HasPrefix(doc, []byte("%PDF")) {
			t.Fatal("expected PDF header")
		}
	})
}
