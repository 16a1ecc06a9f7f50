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
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
	}

	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "data source DNS is required" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	cnf = Configuration{
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432",
		},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "redis DNS is required" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	cnf = Configuration{
		ProjectName: "Test Project",
		DataSource: DataSourceConfig{
			Dns: "some-dns",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
	}
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Defaults must fill in the allocation knobs.
	if cnf.Grants.PassthruFee != DEFAULT_PASSTHRU_FEE {
		t.Errorf("Expected default passthru fee %s, got %s", DEFAULT_PASSTHRU_FEE, cnf.Grants.PassthruFee)
	}
	if cnf.Grants.SettlementAccount != DEFAULT_SETTLEMENT_ACCOUNT {
		t.Errorf("Expected default settlement account %s, got %s", DEFAULT_SETTLEMENT_ACCOUNT, cnf.Grants.SettlementAccount)
	}
	if cnf.Grants.GatewayAccount != DEFAULT_GATEWAY_ACCOUNT {
		t.Errorf("Expected default gateway account %s, got %s", DEFAULT_GATEWAY_ACCOUNT, cnf.Grants.GatewayAccount)
	}
	if cnf.Gateway.TimeoutSec != DEFAULT_GATEWAY_TIMEOUT_SEC {
		t.Errorf("Expected default gateway timeout %d, got %d", DEFAULT_GATEWAY_TIMEOUT_SEC, cnf.Gateway.TimeoutSec)
	}

	// A non-decimal fee rate must be rejected, not silently defaulted.
	cnf.Grants.PassthruFee = "ten percent"
	err = cnf.validateAndAddDefaults()
	if err == nil {
		t.Error("Expected error for non-decimal passthru fee, got nil")
	}
}

func TestPassthruFeeRate(t *testing.T) {
	cnf := Configuration{Grants: GrantsConfig{PassthruFee: "0.25"}}
	if got := cnf.PassthruFeeRate().String(); got != "0.25" {
		t.Errorf("Expected fee rate 0.25, got %s", got)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "giv2giv.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	sampleConfig := Configuration{
		ProjectName: "Temp Project",
		DataSource: DataSourceConfig{
			Dns: "temp-dns",
		},
		Redis: RedisConfig{
			Dns: "temp-redis",
		},
	}
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close()

	// Environment variables override the file contents.
	os.Setenv("GIV2GIV_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("GIV2GIV_PROJECT_NAME")

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile returned error: %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if cnf.ProjectName != "Env Project" {
		t.Errorf("Expected project name from env, got %s", cnf.ProjectName)
	}
	if cnf.DataSource.Dns != "temp-dns" {
		t.Errorf("Expected data source dns from file, got %s", cnf.DataSource.Dns)
	}
}
