package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/registry"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/db"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/repositories"
	"github.com/avatarctic/realestate-crm/internal/utils"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample users, customers, activities and billing",
	Long: `Insert the sample owner (admin@example.com) and member (member@example.com)
with two customers, their activities, a registry record and a billing entry.
Nothing is inserted when the users table already has rows.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.NewDatabaseWithConfig(&cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()

		return seedSampleData(cmd.Context(), database, logger)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func strPtr(s string) *string { return &s }

func seedSampleData(ctx context.Context, database *db.Database, logger *logrus.Logger) error {
	users := repositories.NewUserRepository(database, logger)
	existing, err := users.List(ctx, user.ListParams{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Sample data already exists, skipping initialization")
		return nil
	}

	hash, err := utils.HashPassword(seedPassword)
	if err != nil {
		return err
	}
	company := strPtr("Real Estate Company")
	owner := &user.User{Username: "admin", Email: "admin@example.com", PasswordHash: hash, Role: user.RoleOwner, Company: company}
	member := &user.User{Username: "member", Email: "member@example.com", PasswordHash: hash, Role: user.RoleMember, Company: company}
	for _, u := range []*user.User{owner, member} {
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	customers := repositories.NewCustomerRepository(database, logger)
	john := &customer.Customer{
		Name:               "John Doe",
		PhoneNumber:        "090-1234-5678",
		Email:              strPtr("john@example.com"),
		CurrentAddress:     strPtr("Tokyo, Shibuya-ku, 1-1-1"),
		PostalCode:         strPtr("150-0001"),
		InheritanceAddress: strPtr("Osaka, Chuo-ku, 2-2-2"),
		PropertyType:       strPtr("Apartment"),
		Status:             customer.StatusNew,
		AssignedTo:         &member.ID,
		Source:             strPtr("Website"),
	}
	jane := &customer.Customer{
		Name:               "Jane Smith",
		PhoneNumber:        "080-9876-5432",
		Email:              strPtr("jane@example.com"),
		CurrentAddress:     strPtr("Kyoto, Nakagyo-ku, 3-3-3"),
		PostalCode:         strPtr("604-0001"),
		InheritanceAddress: strPtr("Fukuoka, Hakata-ku, 4-4-4"),
		PropertyType:       strPtr("House"),
		Status:             customer.StatusContacted,
		AssignedTo:         &member.ID,
		Source:             strPtr("Referral"),
	}
	for _, c := range []*customer.Customer{john, jane} {
		if err := customers.Create(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
	}

	activities := repositories.NewActivityRepository(database, logger)
	for _, a := range []*customer.Activity{
		{CustomerID: john.ID, Date: customer.NewDate(2025, time.May, 1), Type: "call", Description: "Initial contact call", Result: strPtr("Customer interested in selling property"), CreatedBy: member.ID},
		{CustomerID: jane.ID, Date: customer.NewDate(2025, time.May, 5), Type: "meeting", Description: "In-person meeting at office", Result: strPtr("Discussed property valuation"), CreatedBy: member.ID},
	} {
		if err := activities.Create(ctx, a); err != nil {
			return fmt.Errorf("seed activity: %w", err)
		}
	}

	extractedAt := time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC)
	if err := repositories.NewRegistryRepository(database, logger).Create(ctx, &registry.Record{
		ExtractedAt:        &extractedAt,
		CustomerName:       "John Doe",
		PostalCode:         strPtr("150-0001"),
		Prefecture:         strPtr("Tokyo"),
		CurrentAddress:     strPtr("Tokyo, Shibuya-ku, 1-1-1"),
		InheritanceAddress: strPtr("Osaka, Chuo-ku, 2-2-2"),
		PhoneNumber:        strPtr("090-1234-5678"),
		Status:             registry.StatusRegistered,
		PDFPath:            strPtr("/uploads/registry1.pdf"),
		CreatedBy:          member.ID,
	}); err != nil {
		return fmt.Errorf("seed registry record: %w", err)
	}

	if err := repositories.NewBillingRepository(database, logger).Create(ctx, &billing.Billing{
		UserID:      member.ID,
		Amount:      50000,
		Status:      billing.StatusPending,
		DueDate:     customer.NewDate(2025, time.June, 1),
		Description: strPtr("May 2025 service fee"),
	}); err != nil {
		return fmt.Errorf("seed billing: %w", err)
	}

	logger.WithFields(logrus.Fields{"owner": owner.Email, "member": member.Email}).Info("sample data inserted")
	return nil
}
