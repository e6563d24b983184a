package database

import "fmt"

func (d *Database) RunMigrations() error {
	// Create the listings table
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			property_type TEXT NOT NULL,
			price REAL NOT NULL,
			price_unit TEXT NOT NULL DEFAULT 'total',
			district TEXT,
			city TEXT,
			address TEXT,
			latitude REAL,
			longitude REAL,
			land_size REAL,
			land_unit TEXT,
			bedrooms INTEGER,
			bathrooms INTEGER,
			features TEXT,
			images TEXT,
			contact_phone TEXT,
			contact_whatsapp TEXT,
			reference TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %v", err)
	}

	// Imported listings carry an external reference used for upserts
	_, err = d.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_reference
		ON listings(reference) WHERE reference != '';
	`)
	if err != nil {
		return fmt.Errorf("failed to create reference index: %v", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_listings_district ON listings(district);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_type ON listings(property_type);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);`,
	} {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create listings index: %v", err)
		}
	}

	// District hulls are regenerated from listing coordinates by the
	// maintenance scheduler
	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS district_hulls (
			district TEXT PRIMARY KEY,
			feature TEXT NOT NULL,
			point_count INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create district_hulls table: %v", err)
	}

	// Create the Telegram configuration table
	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS telegram_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			is_enabled BOOLEAN NOT NULL DEFAULT 0,
			bot_token TEXT NOT NULL DEFAULT '',
			chat_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create telegram_config table: %v", err)
	}

	return nil
}
