package models

import (
	"log"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/storage"
)

// MigrateTable runs AutoMigrate for every table this service owns.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&ActivityEventRecord{},
		&storage.DocumentRecord{},
	)
	if err != nil {
		log.Printf("auto migrate failed: %v", err)
	}
}
