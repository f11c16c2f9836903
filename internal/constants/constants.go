package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	// StoreWriteTimeout bounds a single email-submission insert.
	StoreWriteTimeout = 5 * time.Second
	StoreReadTimeout  = 5 * time.Second
)

const (
	CollectionEmails       = "emails"
	CollectionLandingPage  = "landing_page"
	CollectionSiteSettings = "site_settings"
	CollectionPages        = "pages"
	CollectionBlogPosts    = "blog_posts"
)

const (
	DefaultMongoDBName = "pipsite"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

const (
	CacheKeyPrefixContent   = "content:"
	DefaultCacheTTLSeconds  = 300
	DefaultAnalyticsTopic   = "site_events"
	AnalyticsPublishTimeout = 10 * time.Second
)

// Known email-capture sources. The API accepts any non-empty source tag;
// these are the ones the site itself sends.
const (
	SourceHero   = "hero"
	SourceFooter = "footer"
	SourceBlog   = "blog"
)

const (
	IPUnknown = "unknown"
)
