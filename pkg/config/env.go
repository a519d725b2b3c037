package config

// EnvPrefix is the envconfig prefix shared by every RETAILFLOW_* variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "RETAILFLOW_DB_DSN"
	EnvDBHost = "RETAILFLOW_DB_HOST"
	EnvDBUser = "RETAILFLOW_DB_USER"
	EnvDBName = "RETAILFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
