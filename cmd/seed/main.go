package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/avasquez/dulceria-backend/config"
	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the product catalog from an XLSX workbook. Expected columns:
//
//	0 name | 1 description | 2 category slug | 3 store slug |
//	4 unit abbreviation | 5 base price | 6 base stock |
//	7 featured (yes/no) | 8 image URL | 9 variants
//
// The variants column is optional and holds entries of the form
// "label:price:stock" separated by "|", e.g. "250g:45:20|500g:80:12".
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	lookups, err := loadLookups()
	if err != nil {
		log.Fatal("Failed to load reference data:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath, lookups)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

// lookupTables maps the human-readable keys used in the workbook to
// database IDs.
type lookupTables struct {
	categories map[string]uint // slug -> ID
	stores     map[string]uint // slug -> ID
	units      map[string]uint // abbreviation -> ID
}

func loadLookups() (*lookupTables, error) {
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	unitRepo := repository.NewUnitRepository(db.GetDB())

	lookups := &lookupTables{
		categories: make(map[string]uint),
		stores:     make(map[string]uint),
		units:      make(map[string]uint),
	}

	categories, err := categoryRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	for _, c := range categories {
		lookups.categories[c.Slug] = c.ID
	}

	stores, err := storeRepo.FindAll(repository.StoreFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	for _, s := range stores {
		lookups.stores[s.Slug] = s.ID
	}

	units, err := unitRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	for _, u := range units {
		lookups.units[u.Abbreviation] = u.ID
	}

	return lookups, nil
}

func readProductsFromXLSX(filePath string, lookups *lookupTables) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenProducts := make(map[string]bool)
	skippedCount := 0
	unknownRefCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 8 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		categorySlug := strings.TrimSpace(row[2])
		storeSlug := strings.TrimSpace(row[3])
		unitAbbrev := strings.TrimSpace(row[4])
		priceStr := strings.TrimSpace(row[5])
		stockStr := strings.TrimSpace(row[6])
		featuredStr := strings.TrimSpace(row[7])

		imageURL := ""
		if len(row) > 8 {
			imageURL = strings.TrimSpace(row[8])
		}
		variantsStr := ""
		if len(row) > 9 {
			variantsStr = strings.TrimSpace(row[9])
		}

		if name == "" || categorySlug == "" || storeSlug == "" || unitAbbrev == "" {
			skippedCount++
			continue
		}

		categoryID, ok := lookups.categories[categorySlug]
		if !ok {
			unknownRefCount++
			skippedCount++
			continue
		}
		storeID, ok := lookups.stores[storeSlug]
		if !ok {
			unknownRefCount++
			skippedCount++
			continue
		}
		unitID, ok := lookups.units[unitAbbrev]
		if !ok {
			unknownRefCount++
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}

		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			skippedCount++
			continue
		}

		variants, err := parseVariants(variantsStr)
		if err != nil {
			skippedCount++
			continue
		}

		// Duplicate check (name + store)
		key := fmt.Sprintf("%s|%s", name, storeSlug)
		if seenProducts[key] {
			skippedCount++
			continue
		}
		seenProducts[key] = true

		products = append(products, model.Product{
			CategoryID:    categoryID,
			StoreID:       storeID,
			UnitID:        unitID,
			Name:          name,
			Description:   description,
			Price:         price,
			StockQuantity: stock,
			ImageURL:      imageURL,
			IsFeatured:    isTruthy(featuredStr),
			Variants:      variants,
		})

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with unknown category/store/unit: %d\n", unknownRefCount)

	return products, nil
}

// parseVariants decodes the "label:price:stock|..." variant column. The
// first variant is marked as the default tier.
func parseVariants(s string) ([]model.WeightVariant, error) {
	if s == "" {
		return nil, nil
	}

	var variants []model.WeightVariant
	for _, entry := range strings.Split(s, "|") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed variant entry: %q", entry)
		}

		label := strings.TrimSpace(parts[0])
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid variant price: %q", entry)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid variant stock: %q", entry)
		}

		variants = append(variants, model.WeightVariant{
			Label:         label,
			Price:         price,
			StockQuantity: stock,
			IsDefault:     len(variants) == 0,
		})
	}
	return variants, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
