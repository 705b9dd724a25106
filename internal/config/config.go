package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Chain       ChainConfig
	Redis       RedisConfig
	Billing     BillingConfig
	Attestation AttestationConfig
	Server      ServerConfig
}

type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	PrivateKey      string `mapstructure:"private_key"`
	ChainID         int64  `mapstructure:"chain_id"`
	MaxGasPrice     string `mapstructure:"max_gas_price"`
	GasStepRatio    int64  `mapstructure:"gas_step_ratio"`
	TxTimeoutSec    int64  `mapstructure:"tx_timeout_sec"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type BillingConfig struct {
	CheckMult    int64 `mapstructure:"check_mult"`
	TriggerMult  int64 `mapstructure:"trigger_mult"`
	TargetMult   int64 `mapstructure:"target_mult"`
	SpendTTLSec  int64 `mapstructure:"spend_ttl_sec"`
	VLLMProxy    bool  `mapstructure:"vllm_proxy"`
}

type AttestationConfig struct {
	SecondaryURL string `mapstructure:"secondary_url"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func (b BillingConfig) SpendTTL() time.Duration {
	return time.Duration(b.SpendTTLSec) * time.Second
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("billing.check_mult", 100)
	v.SetDefault("billing.trigger_mult", 200)
	v.SetDefault("billing.target_mult", 500)
	v.SetDefault("billing.spend_ttl_sec", 60)
	v.SetDefault("chain.gas_step_ratio", 11)
	v.SetDefault("chain.tx_timeout_sec", 30)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"chain.rpc_url":             "RPC_URL",
		"chain.contract_address":    "SERVING_CONTRACT",
		"chain.private_key":         "SIGNING_KEY",
		"chain.chain_id":            "CHAIN_ID",
		"chain.max_gas_price":       "MAX_GAS_PRICE",
		"chain.gas_step_ratio":      "GAS_STEP_RATIO",
		"chain.tx_timeout_sec":      "TX_TIMEOUT_SEC",
		"redis.addr":                "REDIS_ADDR",
		"redis.password":            "REDIS_PASSWORD",
		"billing.check_mult":        "CHECK_MULT",
		"billing.trigger_mult":      "TRIGGER_MULT",
		"billing.target_mult":       "TARGET_MULT",
		"billing.spend_ttl_sec":     "SPEND_TTL_SEC",
		"billing.vllm_proxy":        "VLLM_PROXY",
		"attestation.secondary_url": "SECONDARY_ATTESTATION_URL",
		"server.port":               "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	type req struct {
		val  string
		name string
	}
	for _, r := range []req{
		{c.Chain.RPCURL, "RPC_URL"},
		{c.Chain.ContractAddress, "SERVING_CONTRACT"},
		{c.Chain.PrivateKey, "SIGNING_KEY"},
	} {
		if r.val == "" {
			return fmt.Errorf("required config missing: %s", r.name)
		}
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("required config missing: CHAIN_ID")
	}
	if c.Billing.CheckMult <= 0 || c.Billing.TriggerMult <= c.Billing.CheckMult || c.Billing.TargetMult <= c.Billing.TriggerMult {
		return fmt.Errorf("billing thresholds must satisfy 0 < check < trigger < target")
	}
	return nil
}
