package constants

const (
	APP_NAME   = "saigo.info backend"
	API_PREFIX = "/api/v1"

	ADMIN_ROLE_NAME = "admin"

	POST_ID_LENGTH   = 10
	POST_TIME_LAYOUT = "2006-01-02 15:04:05"

	DESCRIPTION_PREVIEW_LENGTH = 250

	DEFAULT_PAGE_SIZE = 3
	MAX_PAGE_SIZE     = 100
)
