package main

import (
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"Mehfil/FiberConfig"
	"Mehfil/Models"
)

func main() {
	Models.Connect()
	seedAdminUser()
	FiberConfig.FiberConfig()
}

// seedAdminUser creates the initial admin account when the users table is
// empty, so a fresh install can log in. Credentials come from ADMIN_USER /
// ADMIN_PASSWORD, defaulting to admin/admin123.
func seedAdminUser() {
	var count int64
	if err := Models.DB.Model(&Models.User{}).Count(&count).Error; err != nil {
		log.Printf("Error checking users table: %v\n", err)
		return
	}
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v\n", err)
		return
	}

	admin := Models.User{Username: username, Password: hash, Permission: 4}
	if err := Models.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v\n", err)
		return
	}
	log.Printf("Seeded admin user %q\n", username)
}
