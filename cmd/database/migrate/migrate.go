package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"foodgram-backend/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Subscription{}); err != nil {
		log.Fatalf("Error migrating subscription table: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.Tag{}); err != nil {
		log.Fatalf("Error migrating tag table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("Error migrating ingredient table: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.RecipeIngredient{}); err != nil {
		log.Fatalf("Error migrating recipe ingredient table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserFavourite{}); err != nil {
		log.Fatalf("Error migrating favourite table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserShoppingCart{}); err != nil {
		log.Fatalf("Error migrating shopping cart table: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
