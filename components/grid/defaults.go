package grid

// Built-in table codes.
const (
	TableProducts  = "inventory.products"
	TablePurchases = "inventory.purchases"
	TableSales     = "inventory.sales"
	TableCatalog   = "inventory.catalog"
)

func minimum(v float64) *float64 { return &v }

// DefaultTableDefinitions returns the inventory tables served out of the box.
func DefaultTableDefinitions() []TableDefinition {
	return []TableDefinition{
		productsTable(),
		purchasesTable(),
		salesTable(),
		catalogTable(),
	}
}

func productsTable() TableDefinition {
	return TableDefinition{
		Code:        TableProducts,
		Name:        "Products",
		Description: "Stock keeping units with pricing and quantity on hand",
		Schema: Schema{Fields: []Field{
			{Name: "name", Label: "Product Name", Type: FieldString, Required: true, Searchable: true},
			{Name: "sku", Label: "SKU", Type: FieldString, Required: true, Searchable: true},
			{Name: "category", Type: FieldString, Required: true, Searchable: true},
			{Name: "price", Type: FieldNumber, Required: true, Minimum: minimum(0)},
			{Name: "unit", Type: FieldString, Unsortable: true},
			{Name: "qty", Label: "Qty", Type: FieldNumber, Required: true, Minimum: minimum(0)},
			{Name: "created_by", Label: "Created By", Type: FieldString, Unsortable: true, ReadOnly: true},
		}},
		PageSize:       DefaultPageSize,
		Locale:         DefaultLocale,
		ExportFilename: "products.csv",
		Seed: []map[string]any{
			{"name": "Macbook pro", "sku": "PT001", "category": "Computers", "price": 1500, "unit": "pc", "qty": 100, "created_by": "Admin"},
			{"name": "Orange", "sku": "PT002", "category": "Fruits", "price": 10, "unit": "pc", "qty": 100, "created_by": "Admin"},
		},
	}
}

func purchasesTable() TableDefinition {
	return TableDefinition{
		Code:        TablePurchases,
		Name:        "Purchases",
		Description: "Purchased products with sale and market prices",
		Schema: Schema{Fields: []Field{
			{Name: "index", Type: FieldNumber, ReadOnly: true},
			{Name: "product", Type: FieldString, Required: true, Searchable: true},
			{Name: "category", Type: FieldString, Required: true, Searchable: true},
			{Name: "sub_category", Label: "Sub-Category", Type: FieldString, Searchable: true},
			{Name: "brand", Type: FieldString, Searchable: true},
			{Name: "sale_price", Type: FieldNumber, Required: true, Minimum: minimum(0)},
			{Name: "market_price", Type: FieldNumber, Minimum: minimum(0)},
			{Name: "type", Type: FieldString, Searchable: true},
			{Name: "rating", Type: FieldNumber, Minimum: minimum(0)},
			{Name: "description", Type: FieldString},
			{Name: "quantity", Type: FieldNumber, Required: true, Minimum: minimum(0)},
		}},
		PageSize:       DefaultPageSize,
		Locale:         DefaultLocale,
		ExportFilename: "product_list.csv",
		Seed:           purchaseSeed(),
	}
}

func purchaseSeed() []map[string]any {
	return []map[string]any{
		{"index": 1, "product": "Garlic Oil - Vegetarian Capsule 500 mg", "category": "Beauty & Hygiene", "sub_category": "Hair Care", "brand": "Sri Sri Ayurveda", "sale_price": 220, "market_price": 220, "type": "Hair Oil & Serum", "rating": 4.1, "description": "This Product contains Garlic Oil that is known...", "quantity": 27},
		{"index": 2, "product": "Water Bottle - Orange", "category": "Kitchen, Garden & Pets", "sub_category": "Storage & Accessories", "brand": "Mastercook", "sale_price": 180, "market_price": 180, "type": "Water & Fridge Bottles", "rating": 2.3, "description": "Each product is microwave safe (without lid)...", "quantity": 15},
		{"index": 3, "product": "Organic Turmeric Powder", "category": "Grocery", "sub_category": "Spices & Masalas", "brand": "24 Mantra Organic", "sale_price": 150, "market_price": 160, "type": "Spices", "rating": 4.5, "description": "Pure and organic turmeric powder...", "quantity": 50},
		{"index": 4, "product": "Almonds - 500g", "category": "Grocery", "sub_category": "Dry Fruits", "brand": "Nutty Gritties", "sale_price": 600, "market_price": 650, "type": "Dry Fruits", "rating": 4.7, "description": "High-quality almonds packed with nutrition...", "quantity": 30},
		{"index": 5, "product": "Stainless Steel Knife Set", "category": "Kitchen, Garden & Pets", "sub_category": "Kitchen Tools", "brand": "Prestige", "sale_price": 1200, "market_price": 1300, "type": "Kitchen Tools", "rating": 4.2, "description": "Durable and sharp stainless steel knives...", "quantity": 20},
		{"index": 6, "product": "Yoga Mat - Blue", "category": "Sports & Fitness", "sub_category": "Fitness Accessories", "brand": "Reebok", "sale_price": 800, "market_price": 850, "type": "Fitness Accessories", "rating": 4.8, "description": "Comfortable and non-slip yoga mat...", "quantity": 25},
		{"index": 7, "product": "LED Desk Lamp", "category": "Home & Decor", "sub_category": "Lighting", "brand": "Philips", "sale_price": 1500, "market_price": 1600, "type": "Lighting", "rating": 4.3, "description": "Energy-efficient LED desk lamp...", "quantity": 40},
		{"index": 8, "product": "Bluetooth Headphones", "category": "Electronics", "sub_category": "Audio", "brand": "Sony", "sale_price": 3000, "market_price": 3200, "type": "Audio", "rating": 4.6, "description": "High-quality sound with noise cancellation...", "quantity": 15},
		{"index": 9, "product": "Running Shoes - Black", "category": "Sports & Fitness", "sub_category": "Footwear", "brand": "Nike", "sale_price": 5000, "market_price": 5500, "type": "Footwear", "rating": 4.9, "description": "Comfortable and durable running shoes...", "quantity": 10},
		{"index": 10, "product": "Ceramic Dinner Set", "category": "Home & Decor", "sub_category": "Dining", "brand": "Corelle", "sale_price": 2500, "market_price": 2700, "type": "Dining", "rating": 4.4, "description": "Elegant and durable ceramic dinner set...", "quantity": 12},
		{"index": 11, "product": "Organic Honey - 250g", "category": "Grocery", "sub_category": "Sweeteners", "brand": "Dabur", "sale_price": 200, "market_price": 220, "type": "Sweeteners", "rating": 4.7, "description": "Pure and organic honey...", "quantity": 35},
		{"index": 12, "product": "Cotton Bath Towel", "category": "Home & Decor", "sub_category": "Bath", "brand": "Bombay Dyeing", "sale_price": 400, "market_price": 450, "type": "Bath", "rating": 4.5, "description": "Soft and absorbent cotton bath towel...", "quantity": 28},
	}
}

func salesTable() TableDefinition {
	return TableDefinition{
		Code:        TableSales,
		Name:        "Sales",
		Description: "Point of sale transactions",
		Schema: Schema{Fields: []Field{
			{Name: "index", Label: "Unnamed", Type: FieldNumber, ReadOnly: true},
			{Name: "timestamp", Type: FieldString, Required: true, Searchable: true},
			{Name: "category", Type: FieldString, Required: true, Searchable: true},
			{Name: "customer_type", Type: FieldString, Searchable: true, Enum: []string{"gold", "silver", "bronze"}},
			{Name: "unit_price", Type: FieldNumber, Required: true, Minimum: minimum(0)},
			{Name: "quantity", Type: FieldNumber, Required: true, Minimum: minimum(0)},
			{Name: "total", Type: FieldNumber, Minimum: minimum(0)},
			{Name: "payment_type", Type: FieldString, Searchable: true},
		}},
		PageSize:       DefaultPageSize,
		Locale:         DefaultLocale,
		ExportFilename: "sales_data.csv",
		Seed:           salesSeed(),
	}
}

func salesSeed() []map[string]any {
	return []map[string]any{
		{"index": 0, "timestamp": "02-03-2022 09:51", "category": "Fruits & Vegetables", "customer_type": "gold", "unit_price": 3.99, "quantity": 2, "total": 7.98, "payment_type": "e-wallet"},
		{"index": 1, "timestamp": "02-03-2022 10:15", "category": "Dairy", "customer_type": "silver", "unit_price": 5.99, "quantity": 1, "total": 5.99, "payment_type": "credit card"},
		{"index": 2, "timestamp": "02-03-2022 11:20", "category": "Bakery", "customer_type": "bronze", "unit_price": 2.99, "quantity": 3, "total": 8.97, "payment_type": "cash"},
		{"index": 3, "timestamp": "02-03-2022 12:30", "category": "Meat", "customer_type": "gold", "unit_price": 7.99, "quantity": 4, "total": 31.96, "payment_type": "e-wallet"},
		{"index": 4, "timestamp": "02-03-2022 13:45", "category": "Seafood", "customer_type": "silver", "unit_price": 9.99, "quantity": 2, "total": 19.98, "payment_type": "credit card"},
		{"index": 5, "timestamp": "02-03-2022 14:50", "category": "Beverages", "customer_type": "bronze", "unit_price": 1.99, "quantity": 5, "total": 9.95, "payment_type": "cash"},
		{"index": 6, "timestamp": "02-03-2022 15:10", "category": "Snacks", "customer_type": "gold", "unit_price": 3.49, "quantity": 3, "total": 10.47, "payment_type": "e-wallet"},
		{"index": 7, "timestamp": "02-03-2022 16:25", "category": "Frozen Foods", "customer_type": "silver", "unit_price": 4.99, "quantity": 2, "total": 9.98, "payment_type": "credit card"},
		{"index": 8, "timestamp": "02-03-2022 17:35", "category": "Canned Goods", "customer_type": "bronze", "unit_price": 2.49, "quantity": 4, "total": 9.96, "payment_type": "cash"},
		{"index": 9, "timestamp": "02-03-2022 18:45", "category": "Dry Goods", "customer_type": "gold", "unit_price": 6.99, "quantity": 3, "total": 20.97, "payment_type": "e-wallet"},
		{"index": 10, "timestamp": "02-03-2022 19:55", "category": "Condiments", "customer_type": "silver", "unit_price": 3.99, "quantity": 2, "total": 7.98, "payment_type": "credit card"},
		{"index": 11, "timestamp": "02-03-2022 20:05", "category": "Spices", "customer_type": "bronze", "unit_price": 1.49, "quantity": 5, "total": 7.45, "payment_type": "cash"},
		{"index": 12, "timestamp": "02-03-2022 21:15", "category": "Grains", "customer_type": "gold", "unit_price": 4.49, "quantity": 3, "total": 13.47, "payment_type": "e-wallet"},
		{"index": 13, "timestamp": "02-03-2022 22:25", "category": "Pasta", "customer_type": "silver", "unit_price": 2.99, "quantity": 2, "total": 5.98, "payment_type": "credit card"},
		{"index": 14, "timestamp": "02-03-2022 23:35", "category": "Sauces", "customer_type": "bronze", "unit_price": 3.99, "quantity": 4, "total": 15.96, "payment_type": "cash"},
		{"index": 15, "timestamp": "02-03-2022 23:55", "category": "Oils", "customer_type": "gold", "unit_price": 5.49, "quantity": 3, "total": 16.47, "payment_type": "e-wallet"},
		{"index": 16, "timestamp": "03-03-2022 00:15", "category": "Vinegars", "customer_type": "silver", "unit_price": 2.49, "quantity": 2, "total": 4.98, "payment_type": "credit card"},
		{"index": 17, "timestamp": "03-03-2022 01:25", "category": "Baking Supplies", "customer_type": "bronze", "unit_price": 1.99, "quantity": 5, "total": 9.95, "payment_type": "cash"},
		{"index": 18, "timestamp": "03-03-2022 02:35", "category": "Breakfast Foods", "customer_type": "gold", "unit_price": 4.99, "quantity": 3, "total": 14.97, "payment_type": "e-wallet"},
		{"index": 19, "timestamp": "03-03-2022 03:45", "category": "Baby Foods", "customer_type": "silver", "unit_price": 3.49, "quantity": 2, "total": 6.98, "payment_type": "credit card"},
		{"index": 20, "timestamp": "03-03-2022 04:55", "category": "Pet Foods", "customer_type": "bronze", "unit_price": 2.99, "quantity": 4, "total": 11.96, "payment_type": "cash"},
	}
}

// catalogTable projects the purchase list onto its brand catalogue.
func catalogTable() TableDefinition {
	purchases := purchaseSeed()
	seed := make([]map[string]any, 0, len(purchases))
	for _, p := range purchases {
		seed = append(seed, map[string]any{
			"product":      p["product"],
			"brand":        p["brand"],
			"category":     p["category"],
			"sub_category": p["sub_category"],
			"type":         p["type"],
			"rating":       p["rating"],
			"description":  p["description"],
		})
	}
	return TableDefinition{
		Code:        TableCatalog,
		Name:        "Catalog",
		Description: "Brand catalogue with product ratings",
		Schema: Schema{Fields: []Field{
			{Name: "product", Type: FieldString, Required: true, Searchable: true},
			{Name: "brand", Type: FieldString, Required: true, Searchable: true},
			{Name: "category", Type: FieldString, Searchable: true},
			{Name: "sub_category", Label: "Sub-Category", Type: FieldString, Searchable: true},
			{Name: "type", Type: FieldString, Searchable: true},
			{Name: "rating", Type: FieldNumber, Minimum: minimum(0)},
			{Name: "description", Type: FieldString, Searchable: true, Unsortable: true},
		}},
		PageSize:       DefaultPageSize,
		Locale:         DefaultLocale,
		ExportFilename: "catalog.csv",
		Seed:           seed,
	}
}
