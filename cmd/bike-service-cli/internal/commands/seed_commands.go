package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
)

const (
	seedCustomerCount      = 12
	seedMaxOrdersPerBike   = 3
	seedTicketEveryNthBike = 4
)

var seedBikeBrands = []string{"Canyon", "Trek", "Specialized", "Cube", "Giant", "Kellys", "CTM", "Scott"}

// InitSeedCommands registers the seed-demo command with the root command.
func InitSeedCommands(rootCmd *cobra.Command) error {
	var seed int64

	seedCmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Fill the database with generated demo data",
		Long: `Generates customers with bikes, service orders across all statuses,
and a few support tickets for local development. Passing --seed makes the
dataset reproducible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedDemoCommand(cmd, seed)
		},
	}
	seedCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible data, 0 picks a random one")

	rootCmd.AddCommand(seedCmd)
	return nil
}

func runSeedDemoCommand(cmd *cobra.Command, seed int64) error {
	gofakeit.Seed(seed)

	cfg, err := loadOpsConfig()
	if err != nil {
		return err
	}

	log, err := setupLogger()
	if err != nil {
		return err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := persistence.AutoMigrateSchema(db); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	customerRepo, err := persistence.NewGormCustomerRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create customer repository: %w", err)
	}
	bikeRepo, err := persistence.NewGormBikeRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create bike repository: %w", err)
	}
	orderRepo, err := persistence.NewGormOrderRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create order repository: %w", err)
	}
	ticketRepo, err := persistence.NewGormTicketRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create ticket repository: %w", err)
	}
	messageRepo, err := persistence.NewGormTicketMessageRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create ticket message repository: %w", err)
	}

	ctx := cmd.Context()
	statuses := orders.Statuses()
	orderCount := 0
	ticketCount := 0
	bikeIndex := 0

	for i := 0; i < seedCustomerCount; i++ {
		customer := &customers.Customer{
			FullName:    gofakeit.Name(),
			Email:       strings.ToLower(gofakeit.Email()),
			PhoneNumber: fmt.Sprintf("+421 9%02d %03d %03d", gofakeit.Number(0, 99), gofakeit.Number(0, 999), gofakeit.Number(0, 999)),
		}
		if err := customerRepo.Create(ctx, customer); err != nil {
			return fmt.Errorf("failed to seed customer: %w", err)
		}

		bikes := 1 + gofakeit.Number(0, 1)
		for b := 0; b < bikes; b++ {
			bike := &customers.Bike{
				CustomerID:   customer.ID,
				Brand:        seedBikeBrands[gofakeit.Number(0, len(seedBikeBrands)-1)],
				Model:        gofakeit.Word(),
				SerialNumber: gofakeit.UUID(),
			}
			if err := bikeRepo.Create(ctx, bike); err != nil {
				return fmt.Errorf("failed to seed bike: %w", err)
			}
			bikeIndex++

			for o := 0; o < 1+gofakeit.Number(0, seedMaxOrdersPerBike-1); o++ {
				order, err := seedOrder(ctx, orderRepo, bike.ID, statuses[gofakeit.Number(0, len(statuses)-1)])
				if err != nil {
					return err
				}
				orderCount++

				if bikeIndex%seedTicketEveryNthBike == 0 && o == 0 {
					if err := seedTicket(ctx, ticketRepo, messageRepo, order); err != nil {
						return err
					}
					ticketCount++
				}
			}
		}
	}

	cmd.Printf("Seeded %d customers, %d orders, %d tickets.\n", seedCustomerCount, orderCount, ticketCount)
	return nil
}

func seedOrder(ctx context.Context, orderRepo orders.OrderRepository, bikeID int64, status orders.Status) (*orders.ServiceOrder, error) {
	order := &orders.ServiceOrder{
		BikeID:           bikeID,
		IssueDescription: gofakeit.Sentence(6),
		Status:           status,
		Checklist:        map[string]bool{},
	}

	if status == orders.StatusDone {
		completed := time.Now().UTC().AddDate(0, 0, -gofakeit.Number(0, 30))
		order.CompletedAt = &completed
		order.WorkDone = gofakeit.Sentence(5)
		order.Price = decimal.NewFromInt(int64(gofakeit.Number(20, 250)))
	} else if gofakeit.Bool() {
		promised := time.Now().UTC().AddDate(0, 0, gofakeit.Number(-3, 10)).Truncate(24 * time.Hour)
		order.PromisedDate = &promised
	}

	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to seed order: %w", err)
	}
	return order, nil
}

func seedTicket(ctx context.Context, ticketRepo tickets.TicketRepository, messageRepo tickets.TicketMessageRepository, order *orders.ServiceOrder) error {
	ticket := &tickets.Ticket{
		OrderID: order.ID,
		Status:  tickets.StatusWaitingAdmin,
		Subject: fmt.Sprintf("Otázka k servisu #%s", order.Code()),
	}
	if err := ticketRepo.Create(ctx, ticket); err != nil {
		return fmt.Errorf("failed to seed ticket: %w", err)
	}

	message := &tickets.TicketMessage{
		TicketID: ticket.ID,
		Role:     tickets.RoleCustomer,
		Message:  gofakeit.Question(),
	}
	if err := messageRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to seed ticket message: %w", err)
	}

	return nil
}
