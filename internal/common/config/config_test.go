package config

import "testing"

func TestMergeRemoteConfigKeepsConsulBlock(t *testing.T) {
	local := defaultConfig()
	local.Consul.Host = "consul.internal"
	local.Consul.Port = 8500
	local.Consul.ConfigKey = "automaster/admin-api/config"

	remote := defaultConfig()
	remote.Server.HTTPPort = 9090
	remote.Consul.Host = "should-not-win"
	remote.Consul.ConfigKey = ""

	merged := mergeRemoteConfig(local, remote)
	if merged.Server.HTTPPort != 9090 {
		t.Fatalf("expected remote server config applied, got port %d", merged.Server.HTTPPort)
	}
	if merged.Consul.Host != "consul.internal" || merged.Consul.ConfigKey != "automaster/admin-api/config" {
		t.Fatalf("expected local consul block preserved, got %+v", merged.Consul)
	}
}

func TestMergeRemoteConfigNilRemote(t *testing.T) {
	local := defaultConfig()
	if got := mergeRemoteConfig(local, nil); got != local {
		t.Fatalf("expected local config returned as-is")
	}
}

func TestLoadConfigFromConsulKVRejectsEmptyKey(t *testing.T) {
	if _, err := LoadConfigFromConsulKV("localhost", 8500, ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
