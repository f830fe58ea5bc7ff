// Package environment contains the types and methods for fetching configuration from the local environment.
package environment

import (
	"os"
	"strconv"
)

const (
	defaultParallelism  = 10                               // defaultParallelism is the default number of in-flight ARM requests.
	parallelismEnv      = "AZRESOURCEDOCS_PARALLELISM"     // parallelismEnv overrides the default parallelism.
	defaultMaxRetries   = 3                                // defaultMaxRetries is the default retry count for transient failures.
	maxRetriesEnv       = "AZRESOURCEDOCS_RETRIES"         // maxRetriesEnv overrides the default retry count.
	extractConfigEnv    = "AZRESOURCEDOCS_EXTRACT_CONFIG"  // extractConfigEnv points at a local path or go-getter URL with extraction rules.
	defaultFetchBaseDir = ".azresourcedocs"                // defaultFetchBaseDir is where remote extraction configs are fetched to.
	fetchBaseDirEnv     = "AZRESOURCEDOCS_DIR"             // fetchBaseDirEnv overrides the fetch base directory.
	tenantIDEnv         = "AZURE_TENANT_ID"                // tenantIDEnv selects the tenant for non-interactive runs.
)

// Parallelism is the contents of the `AZRESOURCEDOCS_PARALLELISM` environment variable, or the default of 10.
func Parallelism() int {
	return intOrDefault(parallelismEnv, defaultParallelism)
}

// MaxRetries is the contents of the `AZRESOURCEDOCS_RETRIES` environment variable, or the default of 3.
func MaxRetries() int {
	return intOrDefault(maxRetriesEnv, defaultMaxRetries)
}

// ExtractConfig is the contents of the `AZRESOURCEDOCS_EXTRACT_CONFIG` environment variable, or empty when the embedded defaults apply.
func ExtractConfig() string {
	return os.Getenv(extractConfigEnv)
}

// FetchBaseDir is the contents of the `AZRESOURCEDOCS_DIR` environment variable, or the default which is `.azresourcedocs`.
func FetchBaseDir() string {
	dir := defaultFetchBaseDir
	if d := os.Getenv(fetchBaseDirEnv); d != "" {
		dir = d
	}
	return dir
}

// TenantID is the contents of the `AZURE_TENANT_ID` environment variable, or empty for the credential default.
func TenantID() string {
	return os.Getenv(tenantIDEnv)
}

func intOrDefault(env string, def int) int {
	v := os.Getenv(env)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return def
	}
	return i
}
