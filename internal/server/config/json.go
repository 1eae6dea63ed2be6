package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/rewear/internal/flagx"
	"github.com/dmitrijs2005/rewear/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so they may be written as "1m" or as nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PresignTTL                 timex.Duration `json:"s3_presign_ttl"`
	InitialPoints                *int64         `json:"initial_points"`
	AdminEmails                  []string       `json:"admin_emails"`
	TxMaxAttempts                int            `json:"tx_max_attempts"`
	TxBaseBackoff                timex.Duration `json:"tx_base_backoff"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson overlays Config with the file named by -c/-config. Keys absent
// from the file keep their current values. A missing or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.S3PresignTTL, c.S3PresignTTL)
	if c.InitialPoints != nil {
		config.InitialPoints = *c.InitialPoints
	}
	if c.AdminEmails != nil {
		config.AdminEmails = c.AdminEmails
	}
	if c.TxMaxAttempts > 0 {
		config.TxMaxAttempts = c.TxMaxAttempts
	}
	setDuration(&config.TxBaseBackoff, c.TxBaseBackoff)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
