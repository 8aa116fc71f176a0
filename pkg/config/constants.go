package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without a tag.
const EnvPrefix = "TOURS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "TOURS_DB_DSN"
	EnvDBHost = "TOURS_DB_HOST"
	EnvDBUser = "TOURS_DB_USER"
	EnvDBName = "TOURS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
