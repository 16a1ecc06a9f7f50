/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// DEFAULT_PASSTHRU_FEE is the platform fee rate applied to the half of a
	// donation that is distributed immediately.
	DEFAULT_PASSTHRU_FEE = "0.10"

	// Custodial account names recorded on transit funds.
	DEFAULT_SETTLEMENT_ACCOUNT = "etrade"
	DEFAULT_GATEWAY_ACCOUNT    = "dwolla"

	DEFAULT_GATEWAY_TIMEOUT_SEC = 30
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"GIV2GIV_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"GIV2GIV_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"GIV2GIV_REDIS_SKIP_TLS_VERIFY"`
}

// GatewayConfig addresses the external payment network. Every send is bounded
// by TimeoutSec; an expired deadline surfaces as GATEWAY_UNAVAILABLE.
type GatewayConfig struct {
	ApiUrl     string `json:"api_url" envconfig:"GIV2GIV_GATEWAY_API_URL"`
	ApiKey     string `json:"api_key" envconfig:"GIV2GIV_GATEWAY_API_KEY"`
	TimeoutSec int    `json:"timeout_sec" envconfig:"GIV2GIV_GATEWAY_TIMEOUT_SEC"`
	MaxRetries int    `json:"max_retries" envconfig:"GIV2GIV_GATEWAY_MAX_RETRIES"`
}

// GrantsConfig holds the allocation arithmetic knobs and the custodial
// account names stamped onto transit fund records.
type GrantsConfig struct {
	PassthruFee       string `json:"passthru_fee" envconfig:"GIV2GIV_GRANTS_PASSTHRU_FEE"`
	SettlementAccount string `json:"settlement_account" envconfig:"GIV2GIV_GRANTS_SETTLEMENT_ACCOUNT"`
	GatewayAccount    string `json:"gateway_account" envconfig:"GIV2GIV_GRANTS_GATEWAY_ACCOUNT"`
	GrantMemo         string `json:"grant_memo" envconfig:"GIV2GIV_GRANTS_MEMO"`
}

type QueueConfig struct {
	DispatchRetryQueue string `json:"dispatch_retry_queue" envconfig:"GIV2GIV_QUEUE_DISPATCH_RETRY"`
	MonitoringPort     string `json:"monitoring_port" envconfig:"GIV2GIV_QUEUE_MONITORING_PORT"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"GIV2GIV_PROJECT_NAME"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Gateway      GatewayConfig    `json:"gateway"`
	Grants       GrantsConfig     `json:"grants"`
	Queue        QueueConfig      `json:"queue"`
	Notification Notification     `json:"notification"`
}

// PassthruFeeRate returns the configured fee rate as a decimal. The rate is
// validated at load time, so parse failures here mean the store was bypassed.
func (cnf *Configuration) PassthruFeeRate() decimal.Decimal {
	rate, err := decimal.NewFromString(cnf.Grants.PassthruFee)
	if err != nil {
		log.Printf("invalid passthru fee %q, falling back to default", cnf.Grants.PassthruFee)
		rate, _ = decimal.NewFromString(DEFAULT_PASSTHRU_FEE)
	}
	return rate
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("giv2giv", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called giv2giv.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "giv2giv Grants"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Gateway.ApiUrl = strings.TrimSpace(cnf.Gateway.ApiUrl)

	if cnf.Grants.PassthruFee == "" {
		cnf.Grants.PassthruFee = DEFAULT_PASSTHRU_FEE
		log.Printf("Warning: Passthru fee not specified. Setting default rate: %s", DEFAULT_PASSTHRU_FEE)
	}
	if _, err := decimal.NewFromString(cnf.Grants.PassthruFee); err != nil {
		log.Printf("Error: Passthru fee %q is not a decimal.", cnf.Grants.PassthruFee)
		return errors.New("passthru fee must be a decimal rate between 0 and 1")
	}

	if cnf.Grants.SettlementAccount == "" {
		cnf.Grants.SettlementAccount = DEFAULT_SETTLEMENT_ACCOUNT
	}
	if cnf.Grants.GatewayAccount == "" {
		cnf.Grants.GatewayAccount = DEFAULT_GATEWAY_ACCOUNT
	}

	if cnf.Gateway.TimeoutSec <= 0 {
		cnf.Gateway.TimeoutSec = DEFAULT_GATEWAY_TIMEOUT_SEC
		log.Printf("Warning: Gateway timeout not specified. Setting default value: %d seconds", DEFAULT_GATEWAY_TIMEOUT_SEC)
	}
	if cnf.Gateway.MaxRetries <= 0 {
		cnf.Gateway.MaxRetries = 3
	}

	if cnf.Queue.DispatchRetryQueue == "" {
		cnf.Queue.DispatchRetryQueue = "dispatch_retry_queue"
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = "5001"
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
