package performance

import (
	"time"

	"github.com/google/uuid"
)

type LeadSummary struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

type PerformingLead struct {
	Lead       LeadSummary `json:"lead"`
	OrderCount int         `json:"orderCount"`
}

type UnderperformingLead struct {
	Lead           LeadSummary `json:"lead"`
	OrderCount     int         `json:"orderCount"`
	ExpectedOrders float64     `json:"expectedOrders"`
	LastOrderDate  *time.Time  `json:"lastOrderDate"`
}

type WellPerformingResponse struct {
	WellPerformingAccounts []PerformingLead `json:"wellPerformingAccounts"`
	Timeframe              int              `json:"timeframe"`
	Threshold              int              `json:"threshold"`
}

type UnderperformingResponse struct {
	UnderperformingAccounts []UnderperformingLead `json:"underperformingAccounts"`
	Timeframe               int                   `json:"timeframe"`
	Threshold               int                   `json:"threshold"`
}

type OrderingPatternResponse struct {
	TotalOrders          int         `json:"totalOrders"`
	AverageOrderInterval float64     `json:"averageOrderInterval"`
	OrderDates           []time.Time `json:"orderDates"`
	Timeframe            int         `json:"timeframe"`
}
