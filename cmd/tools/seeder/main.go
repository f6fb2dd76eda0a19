package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fixly-labs/backend-fixly/internal/obs"
)

func main() {
	_ = godotenv.Load()
	logger := obs.NewLogger("console", "info")

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	seedDeviceTypes(ctx, pool, logger)
	seedBrands(ctx, pool, logger)
	seedModels(ctx, pool, logger)
	seedServices(ctx, pool, logger)
	seedParts(ctx, pool, logger)

	logger.Info().Msg("seeding completed")
}

func seedDeviceTypes(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	types := []struct {
		ID   string
		Name string
	}{
		{"mobile", "Mobile"},
		{"laptop", "Laptop"},
		{"tablet", "Tablet"},
		{"desktop", "Desktop"},
	}
	logger.Info().Msg("seeding device types")
	for _, dt := range types {
		_, err := pool.Exec(ctx, `
			INSERT INTO device_types (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
		`, dt.ID, dt.Name)
		if err != nil {
			logger.Error().Err(err).Str("id", dt.ID).Msg("seed device type")
		}
	}
}

func seedBrands(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	brands := []struct {
		ID         string
		DeviceType string
		Name       string
	}{
		{"apple", "mobile", "Apple"},
		{"samsung", "mobile", "Samsung"},
		{"xiaomi", "mobile", "Xiaomi"},
		{"oneplus", "mobile", "OnePlus"},
		{"dell", "laptop", "Dell"},
		{"hp", "laptop", "HP"},
		{"lenovo", "laptop", "Lenovo"},
		{"asus", "laptop", "Asus"},
		{"apple-tab", "tablet", "Apple"},
		{"samsung-tab", "tablet", "Samsung"},
	}
	logger.Info().Msg("seeding brands")
	for _, b := range brands {
		_, err := pool.Exec(ctx, `
			INSERT INTO brands (id, device_type_id, name) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, device_type_id = EXCLUDED.device_type_id;
		`, b.ID, b.DeviceType, b.Name)
		if err != nil {
			logger.Error().Err(err).Str("id", b.ID).Msg("seed brand")
		}
	}
}

func seedModels(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	models := []struct {
		ID    string
		Brand string
		Name  string
	}{
		{"iphone-13", "apple", "iPhone 13"},
		{"iphone-14", "apple", "iPhone 14"},
		{"iphone-15-pro", "apple", "iPhone 15 Pro"},
		{"galaxy-s23", "samsung", "Galaxy S23"},
		{"galaxy-s24-ultra", "samsung", "Galaxy S24 Ultra"},
		{"redmi-note-13", "xiaomi", "Redmi Note 13"},
		{"xps-13", "dell", "XPS 13"},
		{"latitude-7440", "dell", "Latitude 7440"},
		{"spectre-x360", "hp", "Spectre x360"},
		{"thinkpad-x1", "lenovo", "ThinkPad X1 Carbon"},
	}
	logger.Info().Msg("seeding models")
	for _, m := range models {
		_, err := pool.Exec(ctx, `
			INSERT INTO models (id, brand_id, name) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, brand_id = EXCLUDED.brand_id;
		`, m.ID, m.Brand, m.Name)
		if err != nil {
			logger.Error().Err(err).Str("id", m.ID).Msg("seed model")
		}
	}
}

func seedServices(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	services := []struct {
		ID         string
		DeviceType string
		Name       string
		Price      string
		TaxRef     string
	}{
		{"mobile-screen", "mobile", "Screen replacement", "1500.00", "998713"},
		{"mobile-battery", "mobile", "Battery replacement", "899.00", "998713"},
		{"mobile-water", "mobile", "Water damage treatment", "1200.00", "998713"},
		{"laptop-screen", "laptop", "Screen replacement", "4500.00", "998713"},
		{"laptop-keyboard", "laptop", "Keyboard replacement", "1800.00", "998713"},
		{"laptop-thermal", "laptop", "Thermal service", "650.00", "998713"},
		{"tablet-screen", "tablet", "Screen replacement", "2800.00", "998713"},
		{"desktop-diagnostics", "desktop", "Diagnostics", "350.00", "998713"},
	}
	logger.Info().Msg("seeding services")
	for _, s := range services {
		_, err := pool.Exec(ctx, `
			INSERT INTO services (id, device_type_id, name, price, tax_ref)
			VALUES ($1, $2, $3, $4::numeric, $5)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price;
		`, s.ID, s.DeviceType, s.Name, s.Price, s.TaxRef)
		if err != nil {
			logger.Error().Err(err).Str("id", s.ID).Msg("seed service")
		}
	}
}

func seedParts(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	parts := []struct {
		ID     string
		Name   string
		Price  string
		TaxRef string
	}{
		{"iphone-13-display", "iPhone 13 display assembly", "6500.00", "8517"},
		{"iphone-13-battery", "iPhone 13 battery", "2200.00", "8507"},
		{"galaxy-s23-display", "Galaxy S23 display assembly", "5800.00", "8517"},
		{"xps-13-battery", "Dell XPS 13 battery", "4200.00", "8507"},
		{"laptop-ssd-1tb", "NVMe SSD 1TB", "5500.00", "8523"},
		{"laptop-ram-16gb", "DDR5 RAM 16GB", "3900.00", "8473"},
		{"usb-c-port", "USB-C charging port", "450.00", "8536"},
		{"adhesive-kit", "Display adhesive kit", "120.00", "3506"},
	}
	logger.Info().Msg("seeding parts")
	for _, p := range parts {
		_, err := pool.Exec(ctx, `
			INSERT INTO parts (id, name, price, tax_ref)
			VALUES ($1, $2, $3::numeric, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price;
		`, p.ID, p.Name, p.Price, p.TaxRef)
		if err != nil {
			logger.Error().Err(err).Str("id", p.ID).Msg("seed part")
		}
	}
}
