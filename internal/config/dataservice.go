package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

// Accepted SETTLE_POLICY values, matching the names asyncres.ParsePolicy reads.
const (
	SettlePolicyLastSettled      = "last-settled"
	SettlePolicyLatestInvocation = "latest-invocation"
)

type DataServiceConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	SettlePolicy string
	// RateLimit caps outbound requests per second. Zero means unlimited.
	RateLimit float64
}

var (
	dataServiceConfig *DataServiceConfig
	dataServiceOnce   sync.Once
)

func LoadDataServiceConfig() *DataServiceConfig {
	dataServiceOnce.Do(func() {
		dataServiceConfig = parseDataServiceConfig(os.Getenv)
	})
	return dataServiceConfig
}

func parseDataServiceConfig(getenv func(string) string) *DataServiceConfig {
	timeout := 15 * time.Second
	if raw := getenv("DATA_SERVICE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Printf("Warning: invalid DATA_SERVICE_TIMEOUT %q, using %s", raw, timeout)
		} else {
			timeout = d
		}
	}

	policy := getenv("SETTLE_POLICY")
	switch policy {
	case SettlePolicyLastSettled, SettlePolicyLatestInvocation:
	case "":
		policy = SettlePolicyLastSettled
	default:
		log.Printf("Warning: unknown SETTLE_POLICY %q, using %s", policy, SettlePolicyLastSettled)
		policy = SettlePolicyLastSettled
	}

	var rateLimit float64
	if raw := getenv("DATA_SERVICE_RATE_LIMIT"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			log.Printf("Warning: invalid DATA_SERVICE_RATE_LIMIT %q, requests are not limited", raw)
		} else {
			rateLimit = r
		}
	}

	return &DataServiceConfig{
		BaseURL:      getenv("DATA_SERVICE_URL"),
		APIKey:       getenv("DATA_SERVICE_API_KEY"),
		Timeout:      timeout,
		SettlePolicy: policy,
		RateLimit:    rateLimit,
	}
}
