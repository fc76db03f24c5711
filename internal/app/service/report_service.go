package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	ExportOrders(filter repository.OrderFilter) (*bytes.Buffer, string, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// ExportOrders renders the filtered orders as an XLSX workbook and
// returns the file contents plus a suggested filename.
func (s *reportService) ExportOrders(filter repository.OrderFilter) (*bytes.Buffer, string, error) {
	logger.Info("Exporting orders to XLSX", map[string]interface{}{
		"status":    filter.Status,
		"date_from": filter.DateFrom,
		"date_to":   filter.DateTo,
	})

	orders, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to fetch orders for export", err, nil)
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Order Number", "Date", "Customer", "Status", "Payment",
		"Fulfillment", "Items", "Total",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, order := range orders {
		row := i + 2

		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.UserID,
			string(order.Status),
			string(order.PaymentStatus),
			string(order.FulfillmentType),
			itemCount,
			order.TotalAmount,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render order export", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))

	logger.Info("Order export generated", map[string]interface{}{
		"order_count": len(orders),
		"filename":    filename,
	})
	return buf, filename, nil
}
