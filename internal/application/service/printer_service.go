package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/pkg/apperror"
	"github.com/sangkips/shundor-pos/pkg/printer"
)

// ReceiptRecorder is notified of every rendered receipt.
type ReceiptRecorder interface {
	ReceiptPrinted(target string)
}

const receiptTargetPDF = "pdf"

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer      printer.Printer
	saleRepo     repository.SaleRepository
	businessName string
	width        int
	recorder     ReceiptRecorder
	now          func() time.Time
}

// NewPrinterService creates a new printer service. saleRepo may be nil on a
// register, which only prints its own bill.
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	businessName string,
	width int,
	recorder ReceiptRecorder,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		saleRepo:     saleRepo,
		businessName: businessName,
		width:        width,
		recorder:     recorder,
		now:          time.Now,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// Status reports printer configuration and reachability.
func (s *PrinterService) Status(ctx context.Context) *PrinterStatus {
	t := s.printer.Type()
	return &PrinterStatus{
		Configured: t != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       string(t),
		Width:      s.width,
	}
}

// PrintBill prints the register's current bill.
func (s *PrinterService) PrintBill(ctx context.Context, bill billing.Bill) (*entity.Receipt, error) {
	receipt := NewBillReceipt(s.businessName, bill, s.now())
	return receipt, s.print(ctx, receipt)
}

// PrintSale fetches a stored sale and prints its receipt.
func (s *PrinterService) PrintSale(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipt := NewSaleReceipt(s.businessName, sale)
	return receipt, s.print(ctx, receipt)
}

// BillPDF renders the register's current bill as a PDF.
func (s *PrinterService) BillPDF(bill billing.Bill) ([]byte, error) {
	return s.renderPDF(NewBillReceipt(s.businessName, bill, s.now()))
}

// SalePDF renders a stored sale as a PDF.
func (s *PrinterService) SalePDF(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(NewSaleReceipt(s.businessName, sale))
}

func (s *PrinterService) loadSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	if s.saleRepo == nil {
		return nil, apperror.ErrSaleNotFound
	}
	sale, err := s.saleRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.ErrSaleNotFound
	}
	return sale, nil
}

// print sends the receipt to the printer. The receipt is still returned to
// callers on failure so it can be shown on screen instead.
func (s *PrinterService) print(ctx context.Context, receipt *entity.Receipt) error {
	data := FormatReceipt(receipt, s.width)
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, printer.ErrNotConfigured) {
			return apperror.ErrPrinterNotConfig
		}
		slog.ErrorContext(ctx, "printer error",
			slog.String("sale_id", receipt.SaleID),
			slog.String("printer", string(s.printer.Type())),
			slog.Any("error", err),
		)
		return apperror.ErrPrinterOffline
	}
	s.record(string(s.printer.Type()))
	return nil
}

func (s *PrinterService) renderPDF(receipt *entity.Receipt) ([]byte, error) {
	data, err := RenderReceiptPDF(receipt)
	if err != nil {
		return nil, err
	}
	s.record(receiptTargetPDF)
	return data, nil
}

func (s *PrinterService) record(target string) {
	if s.recorder != nil {
		s.recorder.ReceiptPrinted(target)
	}
}
