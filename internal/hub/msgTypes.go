package hub

const (
	GlobalThemeUpdated = "GlobalThemeUpdated"
	SiteConfigUpdated  = "SiteConfigUpdated"
)

const (
	SiteTopic     = "site"
	EventsChannel = "essence:events"
)
