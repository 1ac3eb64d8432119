package reports

import (
	"fmt"
	"strings"

	"production-manager/internal/audit"
	"production-manager/internal/database"
	"production-manager/internal/httpx"
	"production-manager/internal/inventory"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Kind string

const (
	KindProducts  Kind = "products"
	KindMaterials Kind = "materials"
	KindLogs      Kind = "logs"
)

// ProductReportRow is a product list row plus the names of its materials.
type ProductReportRow struct {
	inventory.ProductResponse
	MaterialNames string `json:"material_names"`
}

// report is one generated report, kept both as the JSON payload and as a
// flat table for the file exports.
type report struct {
	kind     Kind
	payload  any
	headers  []string
	rows     [][]string
	filename string
}

// GET /api/reports/:kind?format=json|csv|xlsx
func ReportHandler(pool *database.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := Kind(c.Params("kind"))
		switch kind {
		case KindProducts, KindMaterials, KindLogs:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report type")
		}

		format := strings.ToLower(c.Query("format", "json"))
		switch format {
		case "json", "csv", "xlsx":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report format")
		}

		var rep *report
		err := pool.WithConn(c.UserContext(), func(db *gorm.DB) error {
			var err error
			rep, err = build(db, kind)
			return err
		})
		if err != nil {
			return httpx.StoreError(err)
		}

		switch format {
		case "csv":
			body, err := rep.csv()
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			c.Attachment(rep.filename + ".csv")
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
			return c.Send(body)
		case "xlsx":
			body, err := rep.xlsx()
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			c.Attachment(rep.filename + ".xlsx")
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			return c.Send(body)
		}
		return c.JSON(rep.payload)
	}
}

func build(db *gorm.DB, kind Kind) (*report, error) {
	switch kind {
	case KindProducts:
		return productsReport(db)
	case KindMaterials:
		return materialsReport(db)
	case KindLogs:
		return logsReport(db)
	}
	return nil, fmt.Errorf("unknown report kind %q", kind)
}

func productsReport(db *gorm.DB) (*report, error) {
	products, err := inventory.LoadProducts(db)
	if err != nil {
		return nil, err
	}

	rep := &report{
		kind:     KindProducts,
		headers:  []string{"id", "name", "type", "estimated_cost", "status", "created_at", "material_names"},
		filename: "products-report",
	}
	payload := make([]ProductReportRow, 0, len(products))
	for _, p := range products {
		row := ProductReportRow{
			ProductResponse: inventory.ToProductResponse(p),
			MaterialNames:   strings.Join(p.MaterialNames, ","),
		}
		payload = append(payload, row)
		rep.rows = append(rep.rows, []string{
			row.ID, row.Name, row.Type, formatCost(row.EstimatedCost), row.Status, row.CreatedAt, row.MaterialNames,
		})
	}
	rep.payload = payload
	return rep, nil
}

func materialsReport(db *gorm.DB) (*report, error) {
	materials, err := inventory.LoadMaterials(db)
	if err != nil {
		return nil, err
	}

	rep := &report{
		kind:     KindMaterials,
		headers:  []string{"id", "name", "quantity", "unit", "supplier"},
		filename: "materials-report",
	}
	payload := make([]inventory.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		row := inventory.ToMaterialResponse(m)
		payload = append(payload, row)
		rep.rows = append(rep.rows, []string{
			row.ID, row.Name, fmt.Sprint(row.Quantity), row.Unit, row.Supplier,
		})
	}
	rep.payload = payload
	return rep, nil
}

func logsReport(db *gorm.DB) (*report, error) {
	logs, err := audit.ListLogs(db)
	if err != nil {
		return nil, err
	}

	rep := &report{
		kind:     KindLogs,
		headers:  []string{"id", "product_id", "product_name", "action", "timestamp"},
		filename: "production-logs-report",
	}
	payload := make([]audit.LogResponse, 0, len(logs))
	for _, l := range logs {
		row := audit.ToResponse(l)
		payload = append(payload, row)
		productID := ""
		if row.ProductID != nil {
			productID = *row.ProductID
		}
		rep.rows = append(rep.rows, []string{
			row.ID, productID, row.ProductName, row.Action, row.Timestamp,
		})
	}
	rep.payload = payload
	return rep, nil
}

func formatCost(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
