package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tokendesk/tokendesk/storage/model"
)

// csvHeader lists the export columns in table order.
var csvHeader = []string{
	"id", "date", "location", "sub_location", "token", "password",
	"client_name", "contact", "who_will_ship", "contacted_client", "status",
	"forwarded", "charges", "payment_received", "amount_due", "agent_name",
	"executive_name", "charges_to_executive", "margin", "process_by",
	"completion_date", "agent_payment_applied", "executive_payment_applied",
}

// registerTokens wires the token record handlers.
func registerTokens(r fiber.Router, tokens model.TokenRecordsStore) {
	g := r.Group("/tokens")

	g.Get("/", func(c *fiber.Ctx) error {
		filter := model.TokenRecordFilter{
			Location:  c.Query("location"),
			Status:    c.Query("status"),
			Search:    c.Query("search"),
			Agent:     c.Query("agent"),
			Executive: c.Query("executive"),
			FromDate:  c.Query("from_date"),
			ToDate:    c.Query("to_date"),
		}
		records, err := tokens.List(filter)
		if err != nil {
			return storeError(c, err)
		}
		if records == nil {
			records = []model.TokenRecord{}
		}
		return c.JSON(records)
	})

	g.Post("/", func(c *fiber.Ctx) error {
		var rec model.TokenRecord
		if err := c.BodyParser(&rec); err != nil {
			return badRequest(c, "invalid body")
		}
		rec.ID = 0
		if err := tokens.Create(&rec); err != nil {
			return storeError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "id": rec.ID})
	})

	g.Put("/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return badRequest(c, "invalid id")
		}
		var rec model.TokenRecord
		if err = c.BodyParser(&rec); err != nil {
			return badRequest(c, "invalid body")
		}
		if err = tokens.Update(uint(id), &rec); err != nil {
			return storeError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	g.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return badRequest(c, "invalid id")
		}
		if err = tokens.Delete(uint(id)); err != nil {
			return storeError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	registerBulkOperations(r, tokens)
	registerExport(r, tokens)
	registerReports(r, tokens)
}

func registerBulkOperations(r fiber.Router, tokens model.TokenRecordsStore) {
	type bulkReq struct {
		Operation string `json:"operation"`
		IDs       []uint `json:"ids"`
	}
	r.Post(
		"/bulk-operations", func(c *fiber.Ctx) error {
			var req bulkReq
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "invalid body")
			}
			if req.Operation == "" || len(req.IDs) == 0 {
				return badRequest(c, "operation and ids required")
			}
			var (
				processed int64
				err       error
			)
			switch req.Operation {
			case "apply_agent_payment":
				processed, err = tokens.ApplyAgentPayment(req.IDs)
			case "apply_executive_payment":
				processed, err = tokens.ApplyExecutivePayment(req.IDs)
			case "mark_completed":
				processed, err = tokens.MarkCompleted(req.IDs, time.Now().Format("02-01-2006"))
			default:
				return badRequest(c, "unknown operation")
			}
			if err != nil {
				return storeError(c, err)
			}
			return c.JSON(fiber.Map{"success": true, "processed": processed})
		},
	)
}

func registerExport(r fiber.Router, tokens model.TokenRecordsStore) {
	r.Get(
		"/export", func(c *fiber.Ctx) error {
			records, err := tokens.All()
			if err != nil {
				return storeError(c, err)
			}
			var buf bytes.Buffer
			// UTF-8 BOM so spreadsheet tools pick the right encoding
			buf.Write([]byte{0xEF, 0xBB, 0xBF})
			w := csv.NewWriter(&buf)
			if err = w.Write(csvHeader); err != nil {
				return storeError(c, err)
			}
			for _, rec := range records {
				row := []string{
					fmt.Sprint(rec.ID), rec.Date, rec.Location, rec.SubLocation,
					rec.Token, rec.Password, rec.ClientName, rec.Contact,
					rec.WhoWillShip, rec.ContactedClient, rec.Status,
					rec.Forwarded, rec.Charges, rec.PaymentReceived,
					rec.AmountDue, rec.AgentName, rec.ExecutiveName,
					rec.ChargesToExecutive, rec.Margin, rec.ProcessBy,
					rec.CompletionDate, rec.AgentPaymentApplied,
					rec.ExecutivePaymentApplied,
				}
				if err = w.Write(row); err != nil {
					return storeError(c, err)
				}
			}
			w.Flush()
			if err = w.Error(); err != nil {
				return storeError(c, err)
			}
			filename := fmt.Sprintf("tokens_export_%s.csv", time.Now().Format("20060102_150405"))
			c.Set(fiber.HeaderContentType, "text/csv")
			c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
			return c.Send(buf.Bytes())
		},
	)
}

func registerReports(r fiber.Router, tokens model.TokenRecordsStore) {
	r.Get(
		"/reports/agent", func(c *fiber.Ctx) error {
			agent := c.Query("agent")
			if agent == "" {
				return badRequest(c, "agent parameter required")
			}
			records, err := tokens.AgentReport(agent)
			if err != nil {
				return storeError(c, err)
			}
			if records == nil {
				records = []model.TokenRecord{}
			}
			return c.JSON(records)
		},
	)
	r.Get(
		"/reports/executive", func(c *fiber.Ctx) error {
			executive := c.Query("executive")
			if executive == "" {
				return badRequest(c, "executive parameter required")
			}
			records, err := tokens.ExecutiveReport(executive)
			if err != nil {
				return storeError(c, err)
			}
			if records == nil {
				records = []model.TokenRecord{}
			}
			return c.JSON(records)
		},
	)
}
