// Package export mirrors budget reports to a shared Google Sheet so the
// family can see progress without opening the app. Export is best-effort:
// the database stays the source of truth.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/log"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportSheet   string
}

// NewSheetsExporter creates an exporter for the given spreadsheet and
// sheet name, authenticating with service account credentials.
func NewSheetsExporter(ctx context.Context, spreadsheetID, reportSheet string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportSheet:   reportSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendBudgetReport appends one row per budget: export date, name,
// period, allocation, spend, capped percent and tier. Amounts are written
// in major units so the sheet can sum them directly.
func (e *SheetsExporter) AppendBudgetReport(ctx context.Context, budgets []core.Budget, now time.Time) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	var values [][]any
	for _, b := range budgets {
		progress, err := b.Evaluate(now)
		if err != nil {
			slog.WarnContext(ctx, "Skipping budget with invalid amount",
				log.NewFields().
					WithComponent(log.ComponentExport).
					WithOperation(log.OpExport).
					WithBudget(b.ID, b.Name, b.Amount.Cents, string(b.Period)).
					ToSlice()...)
			continue
		}
		values = append(values, []any{
			now.Format("2006-01-02"),
			b.Name,
			string(b.Period),
			b.Amount.Major(),
			b.Spent.Major(),
			progress.PercentSpent,
			string(progress.Tier),
		})
	}
	if len(values) == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A:G", e.reportSheet)
	vr := &gsheet.ValueRange{Values: values}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append report rows to sheet %s: %w", e.reportSheet, err)
	}

	slog.InfoContext(ctx, "Budget report exported",
		"rows", len(values),
		"sheet", e.reportSheet)
	return nil
}
