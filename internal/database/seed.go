package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// SeedWorker is one account entry in the seed file.
type SeedWorker struct {
	Login      string  `yaml:"login"`
	Name       string  `yaml:"name"`
	Password   string  `yaml:"password"`
	Role       string  `yaml:"role"`
	HourlyRate float64 `yaml:"hourly_rate"`
}

type seedFile struct {
	Workers []SeedWorker `yaml:"workers"`
}

// Seed loads worker accounts from a YAML file. Seeding only runs when the
// workers table is empty, so an existing installation is never touched.
func Seed(db *sqlx.DB, path string) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM workers"); err != nil {
		return fmt.Errorf("seed: count workers: %w", err)
	}
	if count > 0 {
		log.Printf("seed: workers table not empty, skipping")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("seed: parse %s: %w", path, err)
	}

	for _, w := range f.Workers {
		if w.Login == "" || w.Password == "" {
			return fmt.Errorf("seed: worker entry missing login or password")
		}
		if w.Role == "" {
			w.Role = models.RoleWorker
		}
		if w.HourlyRate == 0 {
			w.HourlyRate = models.DefaultHourlyRate
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(w.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", w.Login, err)
		}
		query := db.Rebind(`INSERT INTO workers
			(login, name, password_hash, role, hourly_rate, refresh_token, create_time)
			VALUES (?, ?, ?, ?, ?, '', ?)`)
		if _, err := db.Exec(query, w.Login, w.Name, string(hash), w.Role, w.HourlyRate, time.Now().UTC()); err != nil {
			return fmt.Errorf("seed: insert worker %s: %w", w.Login, err)
		}
		log.Printf("seed: created worker %s (%s)", w.Login, w.Role)
	}
	return nil
}
