package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"ledger/config"
	"ledger/database"
	"ledger/middleware"
	"ledger/router"
	"ledger/scheduler"
	"ledger/service"
)

// @title 小微企业记账系统 API
// @version 1.0
// @description 面向小微企业的复式记账系统 API，支持科目管理、交易录入、银行对账、信用卡核销、月度结账和银行数据同步
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("记账系统 v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	// 定时银行数据同步
	if cfg.BankSync.Enabled {
		client := service.NewHTTPAggregatorClient(cfg.BankSync.BaseURL, cfg.BankSync.Token)
		syncer := service.NewBankSyncer(database.DB, client, cfg.BankSync.ImportAccountID)

		sched := scheduler.New()
		if err := sched.AddJob(cfg.BankSync.Schedule, "banksync", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := syncer.Run(ctx); err != nil {
				log.Printf("银行同步失败: %v", err)
			}
		}); err != nil {
			log.Fatalf("注册银行同步任务失败: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 设置路由
	r := router.SetupRouter(cfg)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  📒 记账系统已启动")
	log.Printf("==========================================")
	log.Printf("  API 文档: http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  健康检查: http://localhost%s/health", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
