// Package testutil holds shared helpers for package tests.
package testutil

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database and registers it as config.DB.
// Every call returns an isolated database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// a second pooled connection would see a different empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() {
		config.SetDB(nil)
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with the given role and password "password123"
func CreateUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Role: role, Phone: "555-0100"}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateMenuItem inserts an available menu item priced at price
func CreateMenuItem(t *testing.T, db *gorm.DB, name, price string) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		Name:            name,
		Description:     name + " description",
		Price:           decimal.RequireFromString(price),
		Category:        models.CategoryMains,
		IsAvailable:     true,
		PreparationTime: models.DefaultPreparationTime,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create menu item: %v", err)
	}
	return item
}

// SetTestConfig registers a config suitable for tests and restores the previous one on cleanup
func SetTestConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()

	previous := config.GetConfig()
	cfg := &config.Config{
		DatabaseURL:     "sqlite://:memory:",
		GoEnv:           "test",
		JWTSecret:       "test-signing-secret-for-kgn-restaurant",
		JWTIssuer:       "kgn-restaurant-api",
		JWTAudience:     "kgn-restaurant-web",
		JWTTTL:          time.Hour,
		StripeAPIBase:   "http://stripe.invalid",
		PaymentCurrency: "usd",
		PaymentTimeout:  2 * time.Second,
		EmailTimeout:    time.Second,
		AdminEmail:      "admin@kgnrestaurant.com",
		MenuCacheTTL:    time.Minute,
	}
	if mutate != nil {
		mutate(cfg)
	}
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(previous) })
	return cfg
}

// PNGBytes is the smallest content that sniffs as image/png
var PNGBytes = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

// MultipartImage builds a multipart body with one "image" file part and
// returns it with its content type
func MultipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

// ImageFileHeader parses a single uploaded "image" file into a FileHeader
func ImageFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartImage(t, filename, content)
	_, params, _ := strings.Cut(contentType, "boundary=")
	form, err := multipart.NewReader(body, params).ReadForm(int64(len(content)) + 1024)
	if err != nil {
		t.Fatalf("Failed to read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	if len(files) == 0 {
		t.Fatalf("No image part in form")
	}
	return files[0]
}
