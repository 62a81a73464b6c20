// Package analytics aggregates order history into buyer and farmer reports.
package analytics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/order"
)

// AnalyticsService defines the reporting operations.
type AnalyticsService interface {
	// BuyerReport aggregates the user's purchase history.
	BuyerReport(ctx context.Context, userID uuid.UUID) (*BuyerReportDto, error)
	// FarmerReport aggregates a seller's sales into a monthly series.
	FarmerReport(ctx context.Context, seller string) (*FarmerReportDto, error)
}

// Service computes reports from the order store.
type Service struct {
	store order.Store
	log   *slog.Logger
}

// NewService creates a new instance of Service.
func NewService(store order.Store, logger *slog.Logger) *Service {
	return &Service{store: store, log: logger}
}

// BuyerReportDto summarizes a buyer's purchase history. Amounts are in paise.
type BuyerReportDto struct {
	TotalSpent int64            `json:"total_spent"`
	OrderCount int              `json:"order_count"`
	ItemCount  int64            `json:"item_count"`
	Categories []CategoryShare  `json:"categories"`
	TopSellers []SellerPurchase `json:"top_sellers"`
}

// CategoryShare is the amount spent within one produce category.
type CategoryShare struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Quantity int64  `json:"quantity"`
}

// SellerPurchase is the amount a buyer spent with one seller.
type SellerPurchase struct {
	Seller string `json:"seller"`
	Amount int64  `json:"amount"`
}

// FarmerReportDto summarizes a seller's sales. Amounts are in paise.
type FarmerReportDto struct {
	Seller       string         `json:"seller"`
	TotalRevenue int64          `json:"total_revenue"`
	UnitsSold    int64          `json:"units_sold"`
	Monthly      []MonthlySales `json:"monthly"`
}

// MonthlySales is one month of a seller's series, keyed YYYY-MM.
type MonthlySales struct {
	Month   string `json:"month"`
	Units   int64  `json:"units"`
	Revenue int64  `json:"revenue"`
}

// topSellerLimit caps the buyer report's seller ranking.
const topSellerLimit = 5

func (s *Service) BuyerReport(ctx context.Context, userID uuid.UUID) (*BuyerReportDto, error) {
	items, err := s.store.FindItemsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &BuyerReportDto{
		Categories: make([]CategoryShare, 0),
		TopSellers: make([]SellerPurchase, 0),
	}
	orderIDs := make(map[uuid.UUID]struct{})
	byCategory := make(map[string]*CategoryShare)
	bySeller := make(map[string]int64)

	for _, item := range items {
		orderIDs[item.OrderID] = struct{}{}
		report.TotalSpent += item.Amount
		report.ItemCount += int64(item.Quantity)

		share, ok := byCategory[item.Category]
		if !ok {
			share = &CategoryShare{Category: item.Category}
			byCategory[item.Category] = share
		}
		share.Amount += item.Amount
		share.Quantity += int64(item.Quantity)

		bySeller[item.Seller] += item.Amount
	}
	report.OrderCount = len(orderIDs)

	for _, share := range byCategory {
		report.Categories = append(report.Categories, *share)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Amount > report.Categories[j].Amount
	})

	for seller, amount := range bySeller {
		report.TopSellers = append(report.TopSellers, SellerPurchase{Seller: seller, Amount: amount})
	}
	sort.Slice(report.TopSellers, func(i, j int) bool {
		if report.TopSellers[i].Amount != report.TopSellers[j].Amount {
			return report.TopSellers[i].Amount > report.TopSellers[j].Amount
		}
		return report.TopSellers[i].Seller < report.TopSellers[j].Seller
	})
	if len(report.TopSellers) > topSellerLimit {
		report.TopSellers = report.TopSellers[:topSellerLimit]
	}
	return report, nil
}

func (s *Service) FarmerReport(ctx context.Context, seller string) (*FarmerReportDto, error) {
	items, err := s.store.FindItemsBySeller(ctx, seller)
	if err != nil {
		return nil, err
	}

	report := &FarmerReportDto{
		Seller:  seller,
		Monthly: make([]MonthlySales, 0),
	}
	byMonth := make(map[string]*MonthlySales)
	for _, item := range items {
		report.TotalRevenue += item.Amount
		report.UnitsSold += int64(item.Quantity)

		month := item.CreatedAt.UTC().Format("2006-01")
		sales, ok := byMonth[month]
		if !ok {
			sales = &MonthlySales{Month: month}
			byMonth[month] = sales
		}
		sales.Units += int64(item.Quantity)
		sales.Revenue += item.Amount
	}

	for _, sales := range byMonth {
		report.Monthly = append(report.Monthly, *sales)
	}
	sort.Slice(report.Monthly, func(i, j int) bool {
		return report.Monthly[i].Month < report.Monthly[j].Month
	})
	return report, nil
}
