package main

import (
	"flag"
	"log"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/database"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/repository"
	"github.com/qs3c/lingo_go_server/internal/service"
)

// 订阅档位运维工具。默认做幂等初始化，已有档位不会被覆盖；
// 带 -update 时对指定档位做显式修改。档位是参考数据，
// 改价格/限额只走这里，不走 HTTP 接口。
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	updateName := flag.String("update", "", "要修改的档位名，留空则只做初始化")
	displayName := flag.String("display-name", "", "新的展示名")
	price := flag.Float64("price", -1, "新的价格")
	dailyLimit := flag.Int("daily-limit", -1, "新的日限额")
	monthlyLimit := flag.Int("monthly-limit", -1, "新的月限额")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tierRepo := repository.NewTierRepository(db)
	quotaService := service.NewQuotaService(userRepo, tierRepo, cfg)
	tierService := service.NewTierService(tierRepo, userRepo, quotaService)

	if *updateName == "" {
		if err := tierService.Provision(cfg.Tiers); err != nil {
			log.Fatalf("Failed to provision subscription tiers: %v", err)
		}
		log.Println("Subscription tiers provisioned")
		return
	}

	tier, err := tierRepo.GetByName(*updateName)
	if err != nil {
		log.Fatalf("Failed to load tier %q: %v", *updateName, err)
	}

	req := &dto.UpdateTierRequest{}
	if *displayName != "" {
		req.DisplayName = displayName
	}
	if *price >= 0 {
		req.Price = price
	}
	if *dailyLimit >= 0 {
		req.DailyLimit = dailyLimit
	}
	if *monthlyLimit >= 0 {
		req.MonthlyLimit = monthlyLimit
	}

	info, err := tierService.UpdateTier(tier.ID, req)
	if err != nil {
		log.Fatalf("Failed to update tier %q: %v", *updateName, err)
	}
	log.Printf("Tier %q updated: price=%.2f daily=%d monthly=%d",
		info.Name, info.Price, info.DailyLimit, info.MonthlyLimit)
}
