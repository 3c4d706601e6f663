package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// handleTicketReport exports all tickets as an xlsx workbook.
func (h *Handler) handleTicketReport(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("api: close report workbook: %v", err)
		}
	}()

	const sheet = "Tickets"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Brand", "Model", "Registration", "Status", "Total Price", "Created"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}

	for row, t := range tickets {
		values := []interface{}{
			t.ID,
			t.Brand,
			t.Model,
			t.RegistrationID,
			string(t.Status),
			t.TotalPrice,
			t.CreateTime.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "G", 18)

	filename := fmt.Sprintf("tickets-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Printf("api: write report: %v", err)
	}
}
