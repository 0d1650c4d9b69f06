package config

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/chrissnell/calorimetry/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
// Settings live in a single section/key/value table using the same names as
// the YAML file.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", "config_schema_migrations"))
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate settings schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// setting binds a section/key pair to a field of ConfigData
type setting struct {
	section, key string
	get          func(c *ConfigData) string
	set          func(c *ConfigData, v string) error
}

func stringSetting(section, key string, field func(c *ConfigData) *string) setting {
	return setting{
		section: section,
		key:     key,
		get:     func(c *ConfigData) string { return *field(c) },
		set: func(c *ConfigData, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intSetting(section, key string, field func(c *ConfigData) *int) setting {
	return setting{
		section: section,
		key:     key,
		get:     func(c *ConfigData) string { return strconv.Itoa(*field(c)) },
		set: func(c *ConfigData, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field(c) = n
			return nil
		},
	}
}

var settings = []setting{
	stringSetting("server", "listen-addr", func(c *ConfigData) *string { return &c.Server.ListenAddr }),
	intSetting("server", "port", func(c *ConfigData) *int { return &c.Server.Port }),
	stringSetting("server", "cert", func(c *ConfigData) *string { return &c.Server.Cert }),
	stringSetting("server", "key", func(c *ConfigData) *string { return &c.Server.Key }),
	{
		section: "server",
		key:     "max-upload-bytes",
		get:     func(c *ConfigData) string { return strconv.FormatInt(c.Server.MaxUploadBytes, 10) },
		set: func(c *ConfigData, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return err
			}
			c.Server.MaxUploadBytes = n
			return nil
		},
	},
	stringSetting("analysis", "sheet", func(c *ConfigData) *string { return &c.Analysis.Sheet }),
	{
		section: "analysis",
		key:     "precision",
		get:     func(c *ConfigData) string { return strconv.Itoa(c.Analysis.Digits()) },
		set: func(c *ConfigData, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("precision must not be negative")
			}
			c.Analysis.Precision = &n
			return nil
		},
	},
	stringSetting("chart", "title", func(c *ConfigData) *string { return &c.Chart.Title }),
	stringSetting("chart", "x-label", func(c *ConfigData) *string { return &c.Chart.XLabel }),
	stringSetting("chart", "y-label", func(c *ConfigData) *string { return &c.Chart.YLabel }),
	intSetting("chart", "width", func(c *ConfigData) *int { return &c.Chart.Width }),
	intSetting("chart", "height", func(c *ConfigData) *int { return &c.Chart.Height }),
}

func lookupSetting(section, key string) (setting, bool) {
	for _, s := range settings {
		if s.section == section && s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT section, key, value FROM settings ORDER BY section, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	config := &ConfigData{}
	for rows.Next() {
		var section, key, value string
		if err := rows.Scan(&section, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}

		st, ok := lookupSetting(section, key)
		if !ok {
			return nil, fmt.Errorf("unknown setting %s.%s", section, key)
		}
		if err := st.set(config, value); err != nil {
			return nil, fmt.Errorf("invalid value %q for %s.%s: %w", value, section, key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

// SaveConfig replaces every stored setting with the values in config
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO settings (section, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range settings {
		if _, err := stmt.Exec(st.section, st.key, st.get(config)); err != nil {
			return fmt.Errorf("failed to save %s.%s: %w", st.section, st.key, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite supports write operations
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
