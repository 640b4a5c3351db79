package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
	Database DatabaseConfig `mapstructure:"database"` // PostgreSQL配置，dsn为空时使用内存存储
	Redis    RedisConfig    `mapstructure:"redis"`    // 多实例推送中继
	Kafka    KafkaConfig    `mapstructure:"kafka"`    // 事件审计流
	Chain    ChainConfig    `mapstructure:"chain"`    // 链上合约配置
	Content  ContentConfig  `mapstructure:"content"`  // IPFS pinning 配置
	Admin    AdminConfig    `mapstructure:"admin"`    // 管理员配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`            // 服务端口
	Mode           string   `mapstructure:"mode"`            // Gin运行模式：debug/release/test
	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS 允许的前端地址
	MaxUploadMB    int64    `mapstructure:"max_upload_mb"`   // 视频上传大小上限
	EnablePprof    bool     `mapstructure:"enable_pprof"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"` // debug/info/warn/error
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（URL形式）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// RedisConfig Redis Pub/Sub 中继配置，addr 为空时只做本机推送
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// KafkaConfig 推送消息的审计 topic，brokers 为空时不写 Kafka
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ChainConfig 链配置。PrivateKey 为空时整个进程使用 mock 适配器
type ChainConfig struct {
	RPCURL     string          `mapstructure:"rpc_url"`
	ChainID    int64           `mapstructure:"chain_id"`
	PrivateKey string          `mapstructure:"private_key"` // 服务端签名私钥（仅从 env 注入）
	GasLimit   uint64          `mapstructure:"gas_limit"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
}

// ContractsConfig 各合约部署地址
type ContractsConfig struct {
	PredictionMarket string `mapstructure:"prediction_market"`
	FanTokenDAO      string `mapstructure:"fan_token_dao"`
	SkillShowcase    string `mapstructure:"skill_showcase"`
	CourseNFT        string `mapstructure:"course_nft"`
	Marketplace      string `mapstructure:"marketplace"`
}

// ContentConfig 文件 pinning 服务配置，APIKey 为空时返回占位 hash
type ContentConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Gateway string `mapstructure:"gateway"`
	Timeout int    `mapstructure:"timeout"` // 秒
	Proxy   string `mapstructure:"proxy"`
}

// AdminConfig 管理员地址与 JWT 密钥；JWTSecret 为空时 /api/admin 不鉴权
type AdminConfig struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录加载 config.yaml；文件不存在时使用默认值（纯 mock 模式）
func LoadConfigFrom(dir string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:5000"})
	v.SetDefault("server.max_upload_mb", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("redis.channel", "esports_hub_broadcast")
	v.SetDefault("kafka.topic", "esports-hub.events")
	v.SetDefault("chain.rpc_url", "https://spicy-rpc.chiliz.com/")
	v.SetDefault("chain.chain_id", 88882)
	v.SetDefault("chain.gas_limit", 300000)
	v.SetDefault("content.base_url", "https://api.nft.storage")
	v.SetDefault("content.gateway", "https://nftstorage.link/ipfs/")
	v.SetDefault("content.timeout", 120)
	v.SetDefault("admin.address", "0x0734EdcC126a08375a08C02c3117d44B24dF47Fa")
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = v
	}
	if v := os.Getenv("ADMIN_PRIVATE_KEY"); v != "" {
		cfg.Chain.PrivateKey = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
	// 与前端部署脚本保持一致的两种 key 名
	if v := os.Getenv("NFT_STORAGE_KEY"); v != "" {
		cfg.Content.APIKey = v
	} else if v := os.Getenv("NFT_STORAGE_API_KEY"); v != "" {
		cfg.Content.APIKey = v
	}

	contracts := &cfg.Chain.Contracts
	for env, dst := range map[string]*string{
		"PREDICTION_MARKET_ADDRESS": &contracts.PredictionMarket,
		"FAN_TOKEN_DAO_ADDRESS":     &contracts.FanTokenDAO,
		"SKILL_SHOWCASE_ADDRESS":    &contracts.SkillShowcase,
		"COURSE_NFT_ADDRESS":        &contracts.CourseNFT,
		"MARKETPLACE_ADDRESS":       &contracts.Marketplace,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// Addresses 按前端使用的 key 返回合约地址（deployment-status 接口使用）
func (c ContractsConfig) Addresses() map[string]string {
	return map[string]string{
		"predictionMarket": c.PredictionMarket,
		"fanTokenDAO":      c.FanTokenDAO,
		"skillShowcase":    c.SkillShowcase,
		"courseNFT":        c.CourseNFT,
		"marketplace":      c.Marketplace,
	}
}
