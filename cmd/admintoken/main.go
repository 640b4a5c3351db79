// admintoken 为配置的管理员地址签发 /api/admin 使用的 JWT
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"EsportsHub/internal/api"
	"EsportsHub/internal/config"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "token 有效期")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	if cfg.Admin.JWTSecret == "" {
		log.Fatal("未配置 admin.jwt_secret（或 ADMIN_JWT_SECRET），/api/admin 当前不鉴权")
	}
	token, err := api.GenerateAdminToken(cfg.Admin.Address, cfg.Admin.JWTSecret, *ttl)
	if err != nil {
		log.Fatalf("签发 token 失败: %v", err)
	}
	fmt.Println(token)
}
