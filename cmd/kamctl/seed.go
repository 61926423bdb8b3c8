package main

import (
	"context"
	"fmt"
	"time"

	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/scheduling"
	leadtransport "kam_backend/internal/leads/transport"
	ordertransport "kam_backend/internal/orders/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type seedLead struct {
	lead        leadtransport.CreateLeadRequest
	interaction scheduling.RecordInteractionInput
	order       ordertransport.CreateOrderRequest
}

// seedSummary is printed after seeding.
type seedSummary struct {
	Leads        []uuid.UUID `json:"leads"`
	Interactions []uuid.UUID `json:"interactions"`
	Orders       []uuid.UUID `json:"orders"`
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo leads with one interaction and one order each",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			summary, err := seed(cmd.Context(), rt)
			if err != nil {
				return err
			}
			rt.bus.Wait()

			return printJSON(cmd, summary)
		},
	}
}

func demoData(now time.Time) []seedLead {
	return []seedLead{
		{
			lead: leadtransport.CreateLeadRequest{
				Name:              "Lead 1",
				Address:           "123 Lead St",
				Type:              domain.CategoryRestaurant,
				Status:            domain.StatusNew,
				CallFrequency:     7,
				PreferredTimezone: "America/New_York",
			},
			interaction: scheduling.RecordInteractionInput{
				Type:     domain.InteractionCall,
				Notes:    strPtr("Initial contact made."),
				Duration: intPtr(15),
			},
			order: ordertransport.CreateOrderRequest{
				Name:         "Order 1",
				Amount:       decimal.NewFromInt(100),
				Quantity:     2,
				Status:       ordertransport.StatusDelivered,
				DeliveryDate: &now,
			},
		},
		{
			lead: leadtransport.CreateLeadRequest{
				Name:              "Lead 2",
				Address:           "456 Lead Ave",
				Type:              domain.CategoryDhaba,
				Status:            domain.StatusContacted,
				CallFrequency:     14,
				PreferredTimezone: "America/Los_Angeles",
			},
			interaction: scheduling.RecordInteractionInput{
				Type:     domain.InteractionEmail,
				Notes:    strPtr("Follow-up email sent."),
				Duration: intPtr(5),
			},
			order: ordertransport.CreateOrderRequest{
				Name:     "Order 2",
				Amount:   decimal.NewFromInt(200),
				Quantity: 4,
				Status:   ordertransport.StatusPending,
			},
		},
	}
}

// seed goes through the services so the stored rows obey the same
// scheduling and validation rules as API traffic.
func seed(ctx context.Context, rt *runtime) (seedSummary, error) {
	var summary seedSummary

	for _, item := range demoData(time.Now()) {
		lead, err := rt.leads.ManagementService().Create(ctx, item.lead)
		if err != nil {
			return summary, fmt.Errorf("seed lead %q: %w", item.lead.Name, err)
		}
		summary.Leads = append(summary.Leads, lead.ID)

		item.interaction.LeadID = lead.ID
		recorded, err := rt.leads.SchedulingService().RecordInteraction(ctx, item.interaction)
		if err != nil {
			return summary, fmt.Errorf("seed interaction for %q: %w", lead.Name, err)
		}
		summary.Interactions = append(summary.Interactions, recorded.InteractionID)

		item.order.LeadID = lead.ID
		created, err := rt.orders.Service().Create(ctx, item.order)
		if err != nil {
			return summary, fmt.Errorf("seed order %q: %w", item.order.Name, err)
		}
		summary.Orders = append(summary.Orders, created.Order.ID)
	}

	rt.log.Info("demo data seeded", "leads", len(summary.Leads), "orders", len(summary.Orders))
	return summary, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
