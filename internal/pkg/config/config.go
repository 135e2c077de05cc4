// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是整个服务的配置树，启动时从 YAML 文件加载一次。
type Config struct {
	App      AppConfig      `yaml:"app"`
	Infra    InfraConfig    `yaml:"infra"`
	Services ServicesConfig `yaml:"services"`
	Carrier  CarrierConfig  `yaml:"carrier"`
}

type AppConfig struct {
	// FreeShippingRule 是一个 CEL 表达式，输入变量为 total 和 quantity。
	// 表达式为空时不做包邮判定，完全以请求里的标志为准。
	FreeShippingRule string        `yaml:"free_shipping_rule"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	// ReconcileConcurrency 控制列表查询时并发刷新承运商状态的上限。
	ReconcileConcurrency int `yaml:"reconcile_concurrency"`
}

type InfraConfig struct {
	Mysql     MysqlConfig     `yaml:"mysql"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Nacos     NacosConfig     `yaml:"nacos"`
}

type MysqlConfig struct {
	DSN string `yaml:"dsn"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	StockTopic string   `yaml:"stock_topic"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	// CarrierStatusTTL 是承运商状态缓存的有效期。
	CarrierStatusTTL time.Duration `yaml:"carrier_status_ttl"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	Servers []string `yaml:"servers"`
}

type NacosConfig struct {
	ServerAddrs []string `yaml:"server_addrs"`
	Namespace   string   `yaml:"namespace"`
	Group       string   `yaml:"group"`
}

// ServicesConfig 保存各协作方服务的基础地址。
type ServicesConfig struct {
	ProductBaseURL  string `yaml:"product_base_url"`
	ProfileBaseURL  string `yaml:"profile_base_url"`
	ShippingBaseURL string `yaml:"shipping_base_url"`
}

// CarrierConfig 是发货网关调用第三方承运商所需的凭证与取件信息。
type CarrierConfig struct {
	BaseURL     string `yaml:"base_url"`
	Token       string `yaml:"token"`
	PartnerCode string `yaml:"partner_code"`

	// 取件方信息，随每个运单一并提交给承运商。
	PickName     string `yaml:"pick_name"`
	PickAddress  string `yaml:"pick_address"`
	PickProvince string `yaml:"pick_province"`
	PickDistrict string `yaml:"pick_district"`
	PickWard     string `yaml:"pick_ward"`
	PickTel      string `yaml:"pick_tel"`
}

const envConfigPath = "NEXMALL_CONFIG"

var current atomic.Pointer[Config]

// Load 从 path 读取配置；path 为空时取 NEXMALL_CONFIG 环境变量，
// 再退化到 ./config.yaml。
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	current.Store(cfg)
	return cfg, nil
}

// GetCurrent 返回最近一次 Load 的配置。未 Load 时返回默认值，
// 方便测试环境直接使用。
func GetCurrent() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	cfg := defaultConfig()
	current.Store(cfg)
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			RequestTimeout:       10 * time.Second,
			ReconcileConcurrency: 4,
		},
		Infra: InfraConfig{
			Kafka: KafkaConfig{
				Brokers:    []string{"localhost:9092"},
				StockTopic: "update-stock",
			},
			Redis: RedisConfig{
				Addr:             "localhost:6379",
				CarrierStatusTTL: 30 * time.Second,
			},
			Jaeger: JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Nacos:  NacosConfig{ServerAddrs: []string{"localhost:8848"}, Group: "DEFAULT_GROUP"},
		},
	}
}
