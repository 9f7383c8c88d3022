// Package storage holds the site content and exposes typed accessors over it.
//
// Absence is reported with ErrNotFound and never treated as a failure of the store itself;
// callers decide which HTTP status that maps to.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"essence-site/internal/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrHasDependents    = errors.New("still referenced")
	ErrInvalidReference = errors.New("referenced record doesn't exist")
)

const singletonID = 1

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var found bool
	err := tx.QueryRowContext(ctx, "SELECT EXISTS("+query+")", args...).Scan(&found)
	return found, err
}

// Users

func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, password FROM users WHERE id = ?", id).Scan(&u.ID, &u.Username, &u.Password)
	return u, notFound(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, password FROM users WHERE username = ?", username).Scan(&u.ID, &u.Username, &u.Password)
	return u, notFound(err)
}

func (s *Store) CreateUser(ctx context.Context, username string, passwordHash []byte) (models.User, error) {
	user := models.User{Username: username, Password: passwordHash}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, "SELECT 1 FROM users WHERE username = ?", username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q: %w", username, ErrConflict)
		}

		result, err := tx.ExecContext(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", username, passwordHash)
		if err != nil {
			return err
		}
		user.ID, err = result.LastInsertId()
		return err
	})

	return user, err
}

// Features

const featureColumns = "id, title, description, icon, icon_bg, icon_color"

func scanFeature(row scanner) (models.Feature, error) {
	var f models.Feature
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Icon, &f.IconBg, &f.IconColor)
	return f, err
}

func (s *Store) GetFeatures(ctx context.Context) ([]models.Feature, error) {
	return queryList(ctx, s.db, "SELECT "+featureColumns+" FROM features ORDER BY id", scanFeature)
}

func (s *Store) GetFeature(ctx context.Context, id int64) (models.Feature, error) {
	f, err := scanFeature(s.db.QueryRowContext(ctx, "SELECT "+featureColumns+" FROM features WHERE id = ?", id))
	return f, notFound(err)
}

func (s *Store) CreateFeature(ctx context.Context, f models.Feature) (models.Feature, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO features (title, description, icon, icon_bg, icon_color) VALUES (?, ?, ?, ?, ?)",
		f.Title, f.Description, f.Icon, f.IconBg, f.IconColor)
	if err != nil {
		return f, err
	}
	f.ID, err = result.LastInsertId()
	return f, err
}

// Command categories

const categoryColumns = "id, name, slug"

func scanCategory(row scanner) (models.CommandCategory, error) {
	var c models.CommandCategory
	err := row.Scan(&c.ID, &c.Name, &c.Slug)
	return c, err
}

func (s *Store) GetCommandCategories(ctx context.Context) ([]models.CommandCategory, error) {
	return queryList(ctx, s.db, "SELECT "+categoryColumns+" FROM command_categories ORDER BY id", scanCategory)
}

func (s *Store) GetCommandCategory(ctx context.Context, id int64) (models.CommandCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM command_categories WHERE id = ?", id))
	return c, notFound(err)
}

func (s *Store) GetCommandCategoryBySlug(ctx context.Context, slug string) (models.CommandCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM command_categories WHERE slug = ? ORDER BY id LIMIT 1", slug))
	return c, notFound(err)
}

func (s *Store) CreateCommandCategory(ctx context.Context, c models.CommandCategory) (models.CommandCategory, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, "SELECT 1 FROM command_categories WHERE slug = ?", c.Slug)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("slug %q: %w", c.Slug, ErrConflict)
		}

		result, err := tx.ExecContext(ctx, "INSERT INTO command_categories (name, slug) VALUES (?, ?)", c.Name, c.Slug)
		if err != nil {
			return err
		}
		c.ID, err = result.LastInsertId()
		return err
	})

	return c, err
}

func (s *Store) UpdateCommandCategory(ctx context.Context, id int64, c models.CommandCategory) (models.CommandCategory, error) {
	c.ID = id

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM command_categories WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		taken, err := exists(ctx, tx, "SELECT 1 FROM command_categories WHERE slug = ? AND id <> ?", c.Slug, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("slug %q: %w", c.Slug, ErrConflict)
		}

		_, err = tx.ExecContext(ctx, "UPDATE command_categories SET name = ?, slug = ? WHERE id = ?", c.Name, c.Slug, id)
		return err
	})

	return c, err
}

// DeleteCommandCategory refuses to delete a category that still has commands.
func (s *Store) DeleteCommandCategory(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM command_categories WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		var count int
		err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM commands WHERE category_id = ?", id).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("category %d has %d commands: %w", id, count, ErrHasDependents)
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM command_categories WHERE id = ?", id)
		return err
	})
}

// Commands

const commandColumns = "id, category_id, name, syntax, description, permission"

func scanCommand(row scanner) (models.Command, error) {
	var c models.Command
	err := row.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Syntax, &c.Description, &c.Permission)
	return c, err
}

func (s *Store) GetCommands(ctx context.Context) ([]models.Command, error) {
	return queryList(ctx, s.db, "SELECT "+commandColumns+" FROM commands ORDER BY id", scanCommand)
}

// GetCommandsByCategory returns an empty slice when the category has no commands.
func (s *Store) GetCommandsByCategory(ctx context.Context, categoryID int64) ([]models.Command, error) {
	return queryList(ctx, s.db, "SELECT "+commandColumns+" FROM commands WHERE category_id = ? ORDER BY id", scanCommand, categoryID)
}

func (s *Store) GetCommand(ctx context.Context, id int64) (models.Command, error) {
	c, err := scanCommand(s.db.QueryRowContext(ctx, "SELECT "+commandColumns+" FROM commands WHERE id = ?", id))
	return c, notFound(err)
}

func (s *Store) CreateCommand(ctx context.Context, c models.Command) (models.Command, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM command_categories WHERE id = ?", c.CategoryID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("category %d: %w", c.CategoryID, ErrInvalidReference)
		}

		result, err := tx.ExecContext(ctx, "INSERT INTO commands (category_id, name, syntax, description, permission) VALUES (?, ?, ?, ?, ?)",
			c.CategoryID, c.Name, c.Syntax, c.Description, c.Permission)
		if err != nil {
			return err
		}
		c.ID, err = result.LastInsertId()
		return err
	})

	return c, err
}

func (s *Store) UpdateCommand(ctx context.Context, id int64, c models.Command) (models.Command, error) {
	c.ID = id

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM commands WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		found, err = exists(ctx, tx, "SELECT 1 FROM command_categories WHERE id = ?", c.CategoryID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("category %d: %w", c.CategoryID, ErrInvalidReference)
		}

		_, err = tx.ExecContext(ctx, "UPDATE commands SET category_id = ?, name = ?, syntax = ?, description = ?, permission = ? WHERE id = ?",
			c.CategoryID, c.Name, c.Syntax, c.Description, c.Permission, id)
		return err
	})

	return c, err
}

func (s *Store) DeleteCommand(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM commands WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics

const statisticColumns = "id, servers, users, commands_executed, uptime"

func scanStatistic(row scanner) (models.Statistic, error) {
	var st models.Statistic
	err := row.Scan(&st.ID, &st.Servers, &st.Users, &st.CommandsExecuted, &st.Uptime)
	return st, err
}

// GetStatistics returns the oldest statistics row, only one is ever read.
func (s *Store) GetStatistics(ctx context.Context) (models.Statistic, error) {
	st, err := scanStatistic(s.db.QueryRowContext(ctx, "SELECT "+statisticColumns+" FROM statistics ORDER BY id LIMIT 1"))
	return st, notFound(err)
}

func (s *Store) CreateStatistics(ctx context.Context, st models.Statistic) (models.Statistic, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO statistics (servers, users, commands_executed, uptime) VALUES (?, ?, ?, ?)",
		st.Servers, st.Users, st.CommandsExecuted, st.Uptime)
	if err != nil {
		return st, err
	}
	st.ID, err = result.LastInsertId()
	return st, err
}

func (s *Store) UpdateStatistics(ctx context.Context, id int64, patch models.StatisticPatch) (models.Statistic, error) {
	var updated models.Statistic

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanStatistic(tx.QueryRowContext(ctx, "SELECT "+statisticColumns+" FROM statistics WHERE id = ?", id))
		if err != nil {
			return notFound(err)
		}

		updated = patch.Apply(current)
		_, err = tx.ExecContext(ctx, "UPDATE statistics SET servers = ?, users = ?, commands_executed = ?, uptime = ? WHERE id = ?",
			updated.Servers, updated.Users, updated.CommandsExecuted, updated.Uptime, id)
		return err
	})

	return updated, err
}

// FAQs

func scanFaq(row scanner) (models.Faq, error) {
	var f models.Faq
	err := row.Scan(&f.ID, &f.Question, &f.Answer)
	return f, err
}

func (s *Store) GetFaqs(ctx context.Context) ([]models.Faq, error) {
	return queryList(ctx, s.db, "SELECT id, question, answer FROM faqs ORDER BY id", scanFaq)
}

func (s *Store) GetFaq(ctx context.Context, id int64) (models.Faq, error) {
	f, err := scanFaq(s.db.QueryRowContext(ctx, "SELECT id, question, answer FROM faqs WHERE id = ?", id))
	return f, notFound(err)
}

func (s *Store) CreateFaq(ctx context.Context, f models.Faq) (models.Faq, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO faqs (question, answer) VALUES (?, ?)", f.Question, f.Answer)
	if err != nil {
		return f, err
	}
	f.ID, err = result.LastInsertId()
	return f, err
}

// Testimonials

const testimonialColumns = "id, name, community, content, rating"

func scanTestimonial(row scanner) (models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Community, &t.Content, &t.Rating)
	return t, err
}

func (s *Store) GetTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return queryList(ctx, s.db, "SELECT "+testimonialColumns+" FROM testimonials ORDER BY id", scanTestimonial)
}

func (s *Store) GetTestimonial(ctx context.Context, id int64) (models.Testimonial, error) {
	t, err := scanTestimonial(s.db.QueryRowContext(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id))
	return t, notFound(err)
}

func (s *Store) CreateTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO testimonials (name, community, content, rating) VALUES (?, ?, ?, ?)",
		t.Name, t.Community, t.Content, t.Rating)
	if err != nil {
		return t, err
	}
	t.ID, err = result.LastInsertId()
	return t, err
}

// Global theme

func (s *Store) GetGlobalTheme(ctx context.Context) (models.GlobalTheme, error) {
	var theme models.GlobalTheme
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM global_theme WHERE id = ?", singletonID).Scan(&theme.ID, &theme.Name)
	return theme, notFound(err)
}

// UpdateGlobalTheme sets the theme name, creating the singleton row if it doesn't exist yet.
func (s *Store) UpdateGlobalTheme(ctx context.Context, name string) (models.GlobalTheme, error) {
	theme := models.GlobalTheme{ID: singletonID, Name: name}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM global_theme WHERE id = ?", singletonID)
		if err != nil {
			return err
		}

		if found {
			_, err = tx.ExecContext(ctx, "UPDATE global_theme SET name = ? WHERE id = ?", name, singletonID)
		} else {
			_, err = tx.ExecContext(ctx, "INSERT INTO global_theme (id, name) VALUES (?, ?)", singletonID, name)
		}
		return err
	})

	return theme, err
}

// Site config

const siteConfigColumns = `id, site_name, logo_text, primary_color, discord_invite_url, show_statistics,
	show_testimonials, maintenance_mode, maintenance_message, footer_text, custom_css`

func scanSiteConfig(row scanner) (models.SiteConfig, error) {
	var c models.SiteConfig
	err := row.Scan(&c.ID, &c.SiteName, &c.LogoText, &c.PrimaryColor, &c.DiscordInviteURL, &c.ShowStatistics,
		&c.ShowTestimonials, &c.MaintenanceMode, &c.MaintenanceMessage, &c.FooterText, &c.CustomCSS)
	return c, err
}

func (s *Store) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	c, err := scanSiteConfig(s.db.QueryRowContext(ctx, "SELECT "+siteConfigColumns+" FROM site_config WHERE id = ?", singletonID))
	return c, notFound(err)
}

func (s *Store) createSiteConfig(ctx context.Context, c models.SiteConfig) (models.SiteConfig, error) {
	c.ID = singletonID
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_config (id, site_name, logo_text, primary_color, discord_invite_url,
		show_statistics, show_testimonials, maintenance_mode, maintenance_message, footer_text, custom_css)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SiteName, c.LogoText, c.PrimaryColor, c.DiscordInviteURL, c.ShowStatistics,
		c.ShowTestimonials, c.MaintenanceMode, c.MaintenanceMessage, c.FooterText, c.CustomCSS)
	return c, err
}

// UpdateSiteConfig merges patch onto the stored config. All fields are written by one statement,
// readers see either the old or the new config.
func (s *Store) UpdateSiteConfig(ctx context.Context, id int64, patch models.SiteConfigPatch) (models.SiteConfig, error) {
	var updated models.SiteConfig

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanSiteConfig(tx.QueryRowContext(ctx, "SELECT "+siteConfigColumns+" FROM site_config WHERE id = ?", id))
		if err != nil {
			return notFound(err)
		}

		updated = patch.Apply(current)
		_, err = tx.ExecContext(ctx, `UPDATE site_config SET site_name = ?, logo_text = ?, primary_color = ?,
			discord_invite_url = ?, show_statistics = ?, show_testimonials = ?, maintenance_mode = ?,
			maintenance_message = ?, footer_text = ?, custom_css = ? WHERE id = ?`,
			updated.SiteName, updated.LogoText, updated.PrimaryColor, updated.DiscordInviteURL, updated.ShowStatistics,
			updated.ShowTestimonials, updated.MaintenanceMode, updated.MaintenanceMessage, updated.FooterText,
			updated.CustomCSS, id)
		return err
	})

	return updated, err
}

func queryList[T any](ctx context.Context, db *sql.DB, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	return list, rows.Err()
}
