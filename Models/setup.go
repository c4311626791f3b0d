package Models

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDataBase() {

	err := godotenv.Load(".env")

	if err != nil {
		log.Fatalf("Error loading .env file")
	}

	DbHost := os.Getenv("DB_HOST")
	DbUser := os.Getenv("DB_USER")
	DbPassword := os.Getenv("DB_PASSWORD")
	DbName := os.Getenv("DB_NAME")
	DbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", DbHost, DbUser, DbPassword, DbName, DbPort)
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		fmt.Println("Cannot connect to database ")
		log.Fatal("connection error:", err)
	} else {
		fmt.Println("We are connected to the database ")
	}

	Migrate(DB)
}

// Migrate runs AutoMigrate in dependency order. Exported so tests can
// migrate an in-memory database.
func Migrate(db *gorm.DB) {
	// First migrate models with no dependencies
	db.AutoMigrate(&DeviceToken{})
	db.AutoMigrate(&User{})

	// Then migrate models that depend on the above
	db.AutoMigrate(&Patient{})
	db.AutoMigrate(&Doctor{})

	// Finally migrate models that depend on multiple other models
	db.AutoMigrate(&TherapyPackage{})
	db.AutoMigrate(&Session{})
	db.AutoMigrate(&Appointment{})
	db.AutoMigrate(&Payment{})
}
