package controller

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"workcafe/metrics"
	"workcafe/model"
	"workcafe/repository"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetColumns is the column order of imported and exported spreadsheets.
var SheetColumns = []string{
	"name", "short_description", "map_url", "img_url", "location",
	"has_sockets", "has_toilet", "has_wifi", "can_take_calls",
	"seats", "coffee_price",
}

type SheetController struct {
	Cafes   *repository.CafeRepository
	Metrics *metrics.Metrics
}

type skippedRow struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportCafes creates one cafe per data row of the uploaded workbook.
// Rows that fail to parse, validate or are duplicates are skipped.
func (h *SheetController) ImportCafes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unable to open Excel file"})
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse Excel file"})
		return
	}
	defer xl.Close()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel must have at least one row of data"})
		return
	}

	created := 0
	skipped := []skippedRow{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		fields, err := parseCafeRow(row)
		if err == nil {
			err = h.Cafes.Create(c.Request.Context(), &model.Cafe{CafeFields: fields})
			h.Metrics.CafeMutation("import", err)
		}

		var verr *repository.ValidationError
		switch {
		case err == nil:
			created++
		case errors.Is(err, repository.ErrDuplicate):
			skipped = append(skipped, skippedRow{Row: rowNum, Error: msgDuplicateCafe})
		case errors.As(err, &verr), errors.Is(err, errBadCell):
			skipped = append(skipped, skippedRow{Row: rowNum, Error: err.Error()})
		default:
			serverError(c, err)
			return
		}
	}

	utils.Log.WithField("created", created).WithField("skipped", len(skipped)).Info("cafe import finished")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Import finished",
		"created": created,
		"skipped": skipped,
	})
}

func (h *SheetController) ExportCafes(c *gin.Context) {
	cafes, err := h.Cafes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	xl := excelize.NewFile()
	defer xl.Close()
	sheet := xl.GetSheetName(0)

	header := make([]interface{}, len(SheetColumns))
	for i, col := range SheetColumns {
		header[i] = col
	}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		serverError(c, err)
		return
	}

	for i, cafe := range cafes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			serverError(c, err)
			return
		}
		row := []interface{}{
			cafe.Name, cafe.ShortDescription, cafe.MapURL, cafe.ImgURL, cafe.Location,
			cafe.HasSockets, cafe.HasToilet, cafe.HasWifi, cafe.CanTakeCalls,
			cafe.Seats, cafe.CoffeePrice,
		}
		if err := xl.SetSheetRow(sheet, cell, &row); err != nil {
			serverError(c, err)
			return
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		serverError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cafes.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

var errBadCell = errors.New("invalid cell")

func parseCafeRow(row []string) (model.CafeFields, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	seats, err := strconv.Atoi(cell(9))
	if err != nil {
		return model.CafeFields{}, fmt.Errorf("%w: seats %q", errBadCell, cell(9))
	}
	price, err := strconv.ParseFloat(cell(10), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.CafeFields{}, fmt.Errorf("%w: coffee_price %q", errBadCell, cell(10))
	}

	return model.CafeFields{
		Name:             cell(0),
		ShortDescription: cell(1),
		MapURL:           cell(2),
		ImgURL:           cell(3),
		Location:         cell(4),
		HasSockets:       parseCheckbox(cell(5)),
		HasToilet:        parseCheckbox(cell(6)),
		HasWifi:          parseCheckbox(cell(7)),
		CanTakeCalls:     parseCheckbox(cell(8)),
		Seats:            seats,
		CoffeePrice:      price,
	}, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
