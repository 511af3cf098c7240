package services

import (
	"strconv"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/jedib0t/go-pretty/v6/table"
)

var customerExportHeader = table.Row{
	"ID", "Name", "Phone Number", "Email", "Current Address", "Postal Code",
	"Inheritance Address", "Property Type", "Status", "Assigned To",
	"Last Contact Date", "Next Contact Date", "Notes", "Source",
	"Created At", "Updated At",
}

func exportFilename(now time.Time) string {
	return "customers_export_" + now.Format(customer.DateLayout) + ".csv"
}

func renderCustomersCSV(list []*customer.Customer) string {
	t := table.NewWriter()
	t.AppendHeader(customerExportHeader)
	for _, c := range list {
		t.AppendRow(table.Row{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.PhoneNumber,
			deref(c.Email),
			deref(c.CurrentAddress),
			deref(c.PostalCode),
			deref(c.InheritanceAddress),
			deref(c.PropertyType),
			string(c.Status),
			formatID(c.AssignedTo),
			formatDate(c.LastContactDate),
			formatDate(c.NextContactDate),
			deref(c.Notes),
			deref(c.Source),
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return t.RenderCSV() + "\n"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatDate(d *customer.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
