package models

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password []byte `json:"-"`
}

type Feature struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconBg      string `json:"iconBg"`
	IconColor   string `json:"iconColor"`
}

type CommandCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required,max=64"`
	Slug string `json:"slug" validate:"required,slug"`
}

type Command struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"categoryId" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=32"`
	Syntax      string `json:"syntax" validate:"required,max=256"`
	Description string `json:"description" validate:"required"`
	Permission  string `json:"permission" validate:"required,max=32"`
}

type Statistic struct {
	ID               int64  `json:"id"`
	Servers          int64  `json:"servers"`
	Users            int64  `json:"users"`
	CommandsExecuted int64  `json:"commands_executed"`
	Uptime           string `json:"uptime"`
}

type StatisticPatch struct {
	Servers          *int64  `json:"servers" validate:"omitempty,gte=0"`
	Users            *int64  `json:"users" validate:"omitempty,gte=0"`
	CommandsExecuted *int64  `json:"commands_executed" validate:"omitempty,gte=0"`
	Uptime           *string `json:"uptime" validate:"omitempty,max=16"`
}

func (p StatisticPatch) IsEmpty() bool {
	return p.Servers == nil && p.Users == nil && p.CommandsExecuted == nil && p.Uptime == nil
}

type Faq struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Testimonial struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Community string  `json:"community"`
	Content   string  `json:"content"`
	Rating    float64 `json:"rating"`
}

const (
	ThemeDefault      = "default"
	ThemeChristmas    = "christmas"
	ThemeHalloween    = "halloween"
	ThemeThanksgiving = "thanksgiving"
)

type GlobalTheme struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SiteConfig struct {
	ID                 int64  `json:"id"`
	SiteName           string `json:"siteName"`
	LogoText           string `json:"logoText"`
	PrimaryColor       string `json:"primaryColor"`
	DiscordInviteURL   string `json:"discordInviteUrl"`
	ShowStatistics     bool   `json:"showStatistics"`
	ShowTestimonials   bool   `json:"showTestimonials"`
	MaintenanceMode    bool   `json:"maintenanceMode"`
	MaintenanceMessage string `json:"maintenanceMessage"`
	FooterText         string `json:"footerText"`
	CustomCSS          string `json:"customCss"`
}

// SiteConfigPatch holds a partial site configuration update. Nil fields are left unchanged.
type SiteConfigPatch struct {
	SiteName           *string
	LogoText           *string
	PrimaryColor       *string
	DiscordInviteURL   *string
	ShowStatistics     *bool
	ShowTestimonials   *bool
	MaintenanceMode    *bool
	MaintenanceMessage *string
	FooterText         *string
	CustomCSS          *string
}

// Apply returns a copy of cfg with every non-nil patch field written over it.
func (p SiteConfigPatch) Apply(cfg SiteConfig) SiteConfig {
	if p.SiteName != nil {
		cfg.SiteName = *p.SiteName
	}
	if p.LogoText != nil {
		cfg.LogoText = *p.LogoText
	}
	if p.PrimaryColor != nil {
		cfg.PrimaryColor = *p.PrimaryColor
	}
	if p.DiscordInviteURL != nil {
		cfg.DiscordInviteURL = *p.DiscordInviteURL
	}
	if p.ShowStatistics != nil {
		cfg.ShowStatistics = *p.ShowStatistics
	}
	if p.ShowTestimonials != nil {
		cfg.ShowTestimonials = *p.ShowTestimonials
	}
	if p.MaintenanceMode != nil {
		cfg.MaintenanceMode = *p.MaintenanceMode
	}
	if p.MaintenanceMessage != nil {
		cfg.MaintenanceMessage = *p.MaintenanceMessage
	}
	if p.FooterText != nil {
		cfg.FooterText = *p.FooterText
	}
	if p.CustomCSS != nil {
		cfg.CustomCSS = *p.CustomCSS
	}
	return cfg
}

// Apply returns a copy of s with every non-nil patch field written over it.
func (p StatisticPatch) Apply(s Statistic) Statistic {
	if p.Servers != nil {
		s.Servers = *p.Servers
	}
	if p.Users != nil {
		s.Users = *p.Users
	}
	if p.CommandsExecuted != nil {
		s.CommandsExecuted = *p.CommandsExecuted
	}
	if p.Uptime != nil {
		s.Uptime = *p.Uptime
	}
	return s
}

type ConfigFile struct {
	Server            ServerConfig  `koanf:"server"`
	Log               LogConfig     `koanf:"log"`
	Session           SessionConfig `koanf:"session"`
	SelfContained     bool          `koanf:"selfcontained"`
	Db                DbConfig      `koanf:"db"`
	Redis             RedisConfig   `koanf:"redis"`
	AllowRegistration bool          `koanf:"allowregistration"`
	Admin             AdminConfig   `koanf:"admin"`
	SnowflakeWorkerID int64         `koanf:"snowflakeworkerid"`
}

type ServerConfig struct {
	Address           string `koanf:"address"`
	Port              string `koanf:"port"`
	TlsCert           string `koanf:"tlscert"`
	TlsKey            string `koanf:"tlskey"`
	BehindProxy       bool   `koanf:"behindproxy"`
	Cors              bool   `koanf:"cors"`
	PrintHttpRequests bool   `koanf:"printhttprequests"`
	StaticDir         string `koanf:"staticdir"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	ToFile bool   `koanf:"tofile"`
	File   string `koanf:"file"`
}

type SessionConfig struct {
	Secret   string `koanf:"secret"`
	TTLHours int    `koanf:"ttlhours"`
}

type DbConfig struct {
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Address  string `koanf:"address"`
	Port     string `koanf:"port"`
	Database string `koanf:"database"`
}

type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}
