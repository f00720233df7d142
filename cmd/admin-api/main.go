package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/common/config"
	"github.com/automaster/automaster/internal/common/db"
	"github.com/automaster/automaster/internal/common/logger"
	"github.com/automaster/automaster/internal/common/server"
	"github.com/automaster/automaster/internal/common/tracing"
	"github.com/automaster/automaster/internal/customer"
	"github.com/automaster/automaster/internal/report"
	"github.com/automaster/automaster/internal/transaction"
	"github.com/automaster/automaster/internal/user"
)

func main() {
	configPath := flag.String("config", "configs/admin-api.json", "配置文件路径")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(err)
	}

	// 链路追踪（jaeger 不可用时降级为本地运行）
	_, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	gormDB, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Errorf("failed to connect database: %v", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&car.Car{},
		&customer.Customer{},
		&user.User{},
		&transaction.Transaction{},
	); err != nil {
		log.Errorf("failed to migrate database: %v", err)
		os.Exit(1)
	}

	// 交易仓储同时充当车辆删除前的引用计数器
	txStore := transaction.NewGormStore(gormDB)
	carSvc := car.NewService(car.NewRepo(gormDB), txStore)
	customerSvc := customer.NewService(customer.NewRepo(gormDB))
	userSvc := user.NewService(user.NewRepo(gormDB))
	txSvc := transaction.NewService(txStore)
	reportSvc := report.NewService(report.NewGormStore(gormDB), log)

	carHandler := car.NewHandler(carSvc)
	customerHandler := customer.NewHandler(customerSvc)
	userHandler := user.NewHandler(userSvc, cfg.Auth)
	txHandler := transaction.NewHandler(txSvc)
	reportHandler := report.NewHandler(reportSvc)

	err = server.RunHTTPServer(cfg, log, func(r *gin.Engine) error {
		carHandler.RegisterRoutes(r)
		customerHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
		txHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
		return nil
	})
	if err != nil {
		log.Errorf("server exited with error: %v", err)
		os.Exit(1)
	}
}
