package storage

import (
	"context"
	"fmt"

	"essence-site/internal/models"
)

var seedFeatures = []models.Feature{
	{
		Title:       "Advanced Moderation",
		Description: "Powerful tools to keep your server safe. Auto-mod, anti-spam, custom warnings, and more.",
		Icon:        "shield-alt",
		IconBg:      "bg-accent-primary/10",
		IconColor:   "text-accent-primary",
	},
	{
		Title:       "High-Quality Music",
		Description: "Stream crystal-clear music from Spotify, YouTube, SoundCloud and more with advanced queue controls.",
		Icon:        "music",
		IconBg:      "bg-accent-secondary/10",
		IconColor:   "text-accent-secondary",
	},
	{
		Title:       "Fun & Games",
		Description: "Keep your community engaged with mini-games, trivia, memes, and interactive challenges.",
		Icon:        "gamepad",
		IconBg:      "bg-discord-green/10",
		IconColor:   "text-discord-green",
	},
	{
		Title:       "Server Statistics",
		Description: "Track server growth, activity, and engagement with detailed analytics and leaderboards.",
		Icon:        "chart-line",
		IconBg:      "bg-discord-yellow/10",
		IconColor:   "text-discord-yellow",
	},
	{
		Title:       "Custom Notifications",
		Description: "Set up alerts for Twitch, YouTube, Twitter, and Reddit to keep your community updated.",
		Icon:        "bell",
		IconBg:      "bg-discord-blurple/10",
		IconColor:   "text-discord-blurple",
	},
	{
		Title:       "Custom Commands",
		Description: "Create your own commands and automated responses with our powerful customization system.",
		Icon:        "cog",
		IconBg:      "bg-discord-red/10",
		IconColor:   "text-discord-red",
	},
}

var seedCategories = []models.CommandCategory{
	{Name: "Moderation", Slug: "moderation"},
	{Name: "Music", Slug: "music"},
	{Name: "Fun", Slug: "fun"},
	{Name: "Utility", Slug: "utility"},
	{Name: "Settings", Slug: "settings"},
}

type seedCommand struct {
	categorySlug string
	command      models.Command
}

var seedCommands = []seedCommand{
	{"moderation", models.Command{Name: "ban", Syntax: "/ban @user [reason]", Description: "Ban a user from your server with optional reason", Permission: "Admin"}},
	{"moderation", models.Command{Name: "kick", Syntax: "/kick @user [reason]", Description: "Kick a user from your server with optional reason", Permission: "Mod"}},
	{"moderation", models.Command{Name: "warn", Syntax: "/warn @user [reason]", Description: "Issue a warning to a user that is logged in the system", Permission: "Mod"}},
	{"moderation", models.Command{Name: "mute", Syntax: "/mute @user [duration] [reason]", Description: "Temporarily mute a user for a specified duration", Permission: "Mod"}},
	{"moderation", models.Command{Name: "purge", Syntax: "/purge number [user]", Description: "Delete a specific number of messages, optionally from a specific user", Permission: "Mod"}},
	{"moderation", models.Command{Name: "lockdown", Syntax: "/lockdown channel [duration]", Description: "Temporarily restrict messages in a channel for a specified duration", Permission: "Admin"}},
	{"music", models.Command{Name: "play", Syntax: "/play song or URL", Description: "Play a song from YouTube, Spotify, or other supported platforms", Permission: "Everyone"}},
	{"music", models.Command{Name: "pause", Syntax: "/pause", Description: "Pause the currently playing song", Permission: "Everyone"}},
	{"music", models.Command{Name: "skip", Syntax: "/skip", Description: "Skip to the next song in the queue", Permission: "Everyone"}},
	{"fun", models.Command{Name: "meme", Syntax: "/meme [category]", Description: "Get a random meme, optionally from a specific category", Permission: "Everyone"}},
	{"fun", models.Command{Name: "trivia", Syntax: "/trivia [category]", Description: "Start a trivia game in the current channel", Permission: "Everyone"}},
	{"utility", models.Command{Name: "poll", Syntax: "/poll question option1 option2 [option3]...", Description: "Create a poll with up to 10 options", Permission: "Everyone"}},
	{"utility", models.Command{Name: "remind", Syntax: "/remind time message", Description: "Set a reminder for a specified time", Permission: "Everyone"}},
	{"settings", models.Command{Name: "prefix", Syntax: "/prefix [new_prefix]", Description: "View or change the bot prefix for your server", Permission: "Admin"}},
	{"settings", models.Command{Name: "welcome", Syntax: "/welcome channel [#channel] message [text]", Description: "Configure welcome messages for new members", Permission: "Admin"}},
}

var seedStatistics = models.Statistic{
	Servers:          25432,
	Users:            4700000,
	CommandsExecuted: 142000000,
	Uptime:           "99.9%",
}

var seedFaqs = []models.Faq{
	{
		Question: "How do I add Essence to my server?",
		Answer:   "Click the \"Add to Discord\" button on our website, sign in to Discord if prompted, select your server from the dropdown, and authorize the bot with the requested permissions.",
	},
	{
		Question: "Is Essence free to use?",
		Answer:   "Yes! Essence offers a generous free tier with access to most features. We also offer premium tiers with additional features and higher usage limits for power users.",
	},
	{
		Question: "What permissions does Essence need?",
		Answer:   "Essence requires different permissions based on the features you want to use. For basic functionality, it needs \"Read Messages\" and \"Send Messages\". For moderation features, it needs additional permissions like \"Kick Members\" or \"Ban Members\".",
	},
	{
		Question: "How do I configure Essence for my server?",
		Answer:   "Use the `/settings` command in your server to access the configuration dashboard. From there, you can customize moderation settings, command permissions, and more.",
	},
	{
		Question: "Can I suggest new features for Essence?",
		Answer:   "Absolutely! Join our support server and use the #suggestions channel to share your ideas. We regularly implement community suggestions in our updates.",
	},
}

var seedTestimonials = []models.Testimonial{
	{
		Name:      "Alex Johnson",
		Community: "Gaming Community",
		Content:   "Essence transformed our server. The music quality is unmatched and moderation tools save us hours of work each week.",
		Rating:    5,
	},
	{
		Name:      "Sarah Miller",
		Community: "Art Community",
		Content:   "The custom commands are a game-changer for our art prompts. And the Twitch notifications keep everyone updated on livestreams.",
		Rating:    4.5,
	},
	{
		Name:      "Michael Davies",
		Community: "Study Group",
		Content:   "We use Essence for our study sessions. The pomodoro timer and background music features help us stay productive together.",
		Rating:    5,
	},
}

var seedSiteConfig = models.SiteConfig{
	SiteName:           "essence",
	LogoText:           "essence",
	PrimaryColor:       "#6366f1",
	DiscordInviteURL:   "https://discord.gg/essence",
	ShowStatistics:     true,
	ShowTestimonials:   true,
	MaintenanceMode:    false,
	MaintenanceMessage: "We're performing some maintenance. Please check back soon.",
	FooterText:         "© 2023 essence bot. All rights reserved.",
	CustomCSS:          "",
}

// Seed writes the sample content. It is a no-op when content already exists, which only
// happens with a persistent database.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM command_categories").Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, f := range seedFeatures {
		if _, err := s.CreateFeature(ctx, f); err != nil {
			return false, fmt.Errorf("seeding feature %q: %w", f.Title, err)
		}
	}

	categoryIDs := make(map[string]int64, len(seedCategories))
	for _, c := range seedCategories {
		created, err := s.CreateCommandCategory(ctx, c)
		if err != nil {
			return false, fmt.Errorf("seeding category %q: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = created.ID
	}

	for _, sc := range seedCommands {
		command := sc.command
		command.CategoryID = categoryIDs[sc.categorySlug]
		if _, err := s.CreateCommand(ctx, command); err != nil {
			return false, fmt.Errorf("seeding command %q: %w", command.Name, err)
		}
	}

	if _, err := s.CreateStatistics(ctx, seedStatistics); err != nil {
		return false, fmt.Errorf("seeding statistics: %w", err)
	}

	for _, f := range seedFaqs {
		if _, err := s.CreateFaq(ctx, f); err != nil {
			return false, fmt.Errorf("seeding faq: %w", err)
		}
	}

	for _, t := range seedTestimonials {
		if _, err := s.CreateTestimonial(ctx, t); err != nil {
			return false, fmt.Errorf("seeding testimonial: %w", err)
		}
	}

	if _, err := s.UpdateGlobalTheme(ctx, models.ThemeDefault); err != nil {
		return false, fmt.Errorf("seeding global theme: %w", err)
	}

	if _, err := s.createSiteConfig(ctx, seedSiteConfig); err != nil {
		return false, fmt.Errorf("seeding site config: %w", err)
	}

	return true, nil
}
