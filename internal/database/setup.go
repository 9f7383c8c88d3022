package database

import (
	"database/sql"
	"fmt"

	"essence-site/internal/models"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DialectSqlite = "sqlite"
	DialectMysql  = "mysql"
)

func setPragmaValues(db *sql.DB) error {
	// commands.category_id relies on this to reject deleting a category that still has commands
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	return nil
}

func readPragmaValues(sugar *zap.SugaredLogger, db *sql.DB) error {
	var foreignKeysValue bool
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysValue)
	if err != nil {
		return err
	}
	if !foreignKeysValue {
		return fmt.Errorf("sqlite foreign keys could not be enabled")
	}
	sugar.Debugf("sqlite PRAGMA foreign_keys: %t", foreignKeysValue)

	return nil
}

// Setup opens the database and creates missing tables. Self contained mode uses an in-memory
// sqlite database, so content lives only as long as the process.
func Setup(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (*sql.DB, string, error) {
	if cfg.SelfContained {
		sugar.Info("Opening in-memory sqlite database...")
		db, err := OpenMemory(sugar)
		return db, DialectSqlite, err
	}

	sugar.Infof("Connecting to mysql/mariadb at %s:%s...", cfg.Db.Address, cfg.Db.Port)

	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.Db.User, cfg.Db.Password, cfg.Db.Address, cfg.Db.Port, cfg.Db.Database))
	if err != nil {
		return nil, DialectMysql, err
	}

	db.SetMaxOpenConns(10)

	if err = db.Ping(); err != nil {
		return db, DialectMysql, err
	}

	if err = setupTables(db, DialectMysql); err != nil {
		return db, DialectMysql, err
	}

	return db, DialectMysql, nil
}

// OpenMemory opens a fresh in-memory sqlite database with all tables created.
func OpenMemory(sugar *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	// every new connection to :memory: is a separate empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err = setPragmaValues(db); err != nil {
		return db, err
	}

	if err = readPragmaValues(sugar, db); err != nil {
		return db, err
	}

	if err = setupTables(db, DialectSqlite); err != nil {
		return db, err
	}

	return db, nil
}

func setupTables(db *sql.DB, dialect string) error {
	autoIncrement := "INTEGER PRIMARY KEY AUTOINCREMENT"
	textType := "TEXT"
	keyType := "INTEGER"
	if dialect == DialectMysql {
		autoIncrement = "BIGINT PRIMARY KEY AUTO_INCREMENT"
		textType = "VARCHAR(255)"
		keyType = "BIGINT"
	}

	tables := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS users (
				id %s,
				username %s NOT NULL UNIQUE,
				password BLOB NOT NULL
			);`, autoIncrement, textType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS features (
				id %s,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				icon TEXT NOT NULL,
				icon_bg TEXT NOT NULL,
				icon_color TEXT NOT NULL
			);`, autoIncrement),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS command_categories (
				id %s,
				name TEXT NOT NULL,
				slug %s NOT NULL UNIQUE
			);`, autoIncrement, textType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS commands (
				id %s,
				category_id %s NOT NULL,
				name TEXT NOT NULL,
				syntax TEXT NOT NULL,
				description TEXT NOT NULL,
				permission TEXT NOT NULL,
				FOREIGN KEY (category_id) REFERENCES command_categories(id) ON DELETE RESTRICT
			);`, autoIncrement, keyType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS statistics (
				id %s,
				servers BIGINT NOT NULL,
				users BIGINT NOT NULL,
				commands_executed BIGINT NOT NULL,
				uptime TEXT NOT NULL
			);`, autoIncrement),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS faqs (
				id %s,
				question TEXT NOT NULL,
				answer TEXT NOT NULL
			);`, autoIncrement),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS testimonials (
				id %s,
				name TEXT NOT NULL,
				community TEXT NOT NULL,
				content TEXT NOT NULL,
				rating DOUBLE NOT NULL
			);`, autoIncrement),
		// singleton rows, the id is always 1
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS global_theme (
				id %s PRIMARY KEY CHECK (id = 1),
				name %s NOT NULL
			);`, keyType, textType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS site_config (
				id %s PRIMARY KEY CHECK (id = 1),
				site_name TEXT NOT NULL,
				logo_text TEXT NOT NULL,
				primary_color TEXT NOT NULL,
				discord_invite_url TEXT NOT NULL,
				show_statistics BOOLEAN NOT NULL,
				show_testimonials BOOLEAN NOT NULL,
				maintenance_mode BOOLEAN NOT NULL,
				maintenance_message TEXT NOT NULL,
				footer_text TEXT NOT NULL,
				custom_css TEXT NOT NULL
			);`, keyType),
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}
