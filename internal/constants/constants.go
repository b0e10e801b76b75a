package constants

const (
	// ContextKeyUserID is shared by the session and the gin context.
	ContextKeyUserID = "user_id"
	// ContextKeyUser holds the loaded *models.User for the current request.
	ContextKeyUser = "current_user"
	// ContextKeyCSRFToken holds the token rendered into forms.
	ContextKeyCSRFToken = "csrf_token"

	SessionCookieName = "portfolio_session"
	SessionKeyCSRF    = "csrf_token"

	MinPasswordLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	MaxPasswordLength = 72

	// Pagination
	MinPage              = 1
	ProjectsPerPage      = 9
	AdminProjectsPerPage = 10
	AdminListPerPage     = 20

	// Listing limits
	HomeProjectsLimit      = 6
	HomeAchievementsLimit  = 3
	RelatedProjectsLimit   = 3
	DashboardRecentLimit   = 5
	DashboardPopularLimit  = 5
	CommentMaxLength       = 1000
	TagMaxLength           = 30
	DefaultCategoryColor   = "#1e40af"
	RememberMeMaxAgeSecond = 86400 * 30

	// Uploads
	DefaultMaxUploadBytes = 16 << 20
	ImageMaxDimension     = 1200
	ProfileImageDimension = 300
	JPEGQuality           = 85
	MaxImagePixels        = 50_000_000
)
