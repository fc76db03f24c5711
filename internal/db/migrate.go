package db

import (
	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Customer{},
		&model.Category{},
		&model.Unit{},
		&model.Store{},
		&model.Product{},
		&model.WeightVariant{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.CakeOrder{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedUnits(); err != nil {
		logger.Error("Failed to seed units", err)
		return err
	}
	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedUnits creates the sale units the catalog depends on.
func seedUnits() error {
	var count int64
	if err := DB.Model(&model.Unit{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Units already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	units := []model.Unit{
		{Name: "gram", Abbreviation: "g"},
		{Name: "kilogram", Abbreviation: "kg"},
		{Name: "piece", Abbreviation: "pc"},
		{Name: "box", Abbreviation: "box"},
		{Name: "dozen", Abbreviation: "dz"},
	}

	for _, unit := range units {
		if err := DB.Create(&unit).Error; err != nil {
			logger.Error("Failed to create unit", err, map[string]interface{}{
				"unit": unit.Name,
			})
			return err
		}
	}

	logger.Info("Units seeded successfully", map[string]interface{}{
		"total_units": len(units),
	})
	return nil
}

// seedCategories creates the storefront's top-level categories.
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "Chocolates", Slug: "chocolates", Description: "Pralines, truffles and bars"},
		{Name: "Gummies", Slug: "gummies", Description: "Fruit gums and jellies"},
		{Name: "Cakes", Slug: "cakes", Description: "Celebration and custom cakes"},
		{Name: "Cookies", Slug: "cookies", Description: "Biscuits and shortbread"},
		{Name: "Seasonal", Slug: "seasonal", Description: "Holiday specials"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}
