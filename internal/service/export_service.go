package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

const ExportSheet = "Submissions"

var exportHeaders = []string{"Submission ID", "Form", "Client", "Email", "Status", "Signature", "Payment", "Amount", "Submitted"}

type ExportService struct {
	subs    *repository.SubmissionRepo
	forms   *repository.FormRepo
	clients *repository.ClientRepo
}

func NewExportService(subs *repository.SubmissionRepo, forms *repository.FormRepo, clients *repository.ClientRepo) *ExportService {
	return &ExportService{subs: subs, forms: forms, clients: clients}
}

// Write streams every submission as an xlsx workbook: fixed columns first,
// then one column per form_data key seen across all rows. Submissions and
// clients are read page by page.
func (s *ExportService) Write(ctx context.Context, w io.Writer) error {
	var (
		subs    []models.Submission
		forms   []models.IntakeForm
		clients []models.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subs, err = allSubmissions(gctx, s.subs, models.SubmissionFilter{})
		return err
	})
	g.Go(func() (err error) {
		forms, err = s.forms.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		clients, err = allClients(gctx, s.clients)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	f, err := Workbook(subs, forms, clients)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Workbook lays out the export sheet.
func Workbook(subs []models.Submission, forms []models.IntakeForm, clients []models.Client) (*excelize.File, error) {
	formNames := make(map[string]string, len(forms))
	for _, f := range forms {
		formNames[f.ID] = f.Name
	}
	byID := make(map[string]models.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	keySet := map[string]bool{}
	for _, sub := range subs {
		for k := range sub.FormData {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: name sheet: %w", err)
	}

	headers := append(append([]string{}, exportHeaders...), keys...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ExportSheet, cell, h)
	}

	for r, sub := range subs {
		client := byID[sub.ClientID]
		row := []any{
			sub.ID,
			formNames[sub.FormID],
			client.FullName(),
			client.Email,
			sub.Status,
			sub.SignatureStatus,
			sub.PaymentStatus,
			sub.PaymentAmount,
			FormatDate(sub.CreatedAt),
		}
		for _, k := range keys {
			row = append(row, sub.Value(k))
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(ExportSheet, cell, v)
		}
	}
	return f, nil
}
