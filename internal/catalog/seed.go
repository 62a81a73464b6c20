package catalog

import "context"

// SeedDemo loads the demo catalog used when the service runs against the
// in-memory store. Prices are in paise per unit.
func SeedDemo(ctx context.Context, store Store) error {
	products := []Product{
		{
			Name:          "Organic Maize",
			Description:   "Premium quality organic maize, perfect for both human consumption and animal feed.",
			Category:      "maize",
			Unit:          "kg",
			PricePerUnit:  6000,
			Seller:        "Cereal Grains",
			Location:      "Hyderabad, India",
			StockQuantity: 500,
		},
		{
			Name:          "Barley Grain",
			Description:   "High-quality barley grain, ideal for brewing and cooking purposes.",
			Category:      "barley",
			Unit:          "kg",
			PricePerUnit:  4500,
			Seller:        "Cereal Grains",
			Location:      "Karimnagar, India",
			StockQuantity: 300,
		},
		{
			Name:          "Premium Wheat",
			Description:   "Farm-fresh premium wheat, stone ground and rich in fibre.",
			Category:      "wheat",
			Unit:          "kg",
			PricePerUnit:  4000,
			Seller:        "Golden Harvest",
			Location:      "Nizamabad, India",
			StockQuantity: 800,
		},
		{
			Name:          "Basmati Rice",
			Description:   "Long-grain aromatic basmati rice from the foothills.",
			Category:      "rice",
			Unit:          "kg",
			PricePerUnit:  6000,
			Seller:        "Golden Harvest",
			Location:      "Warangal, India",
			StockQuantity: 0,
		},
	}
	for _, p := range products {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			return err
		}
	}

	farmers := []Farmer{
		{Name: "Farmer John", Location: "Hyderabad, India", Produce: []string{"maize", "wheat"}, Rating: 4.5},
		{Name: "Farmer Jane", Location: "Karimnagar, India", Produce: []string{"barley", "rice"}, Rating: 4.7},
		{Name: "Farmer Bob", Location: "Nizamabad, India", Produce: []string{"wheat"}, Rating: 4.3},
	}
	for _, f := range farmers {
		if _, err := store.CreateFarmer(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
