package database

import (
	"fmt"
	"log"

	"ledger/config"
	"ledger/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.TransactionLine{},
		&models.Job{},
		&models.RealEstateDeal{},
		&models.Vendor{},
		&models.Installer{},
		&models.LeadSource{},
		&models.ClosedPeriod{},
		&models.SyncCursor{},
	); err != nil {
		return err
	}

	// 兼容历史数据：老版本没有 status 字段，默认设置为 active，避免升级后无法登录
	_ = DB.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error

	// 初始化默认科目表（仅当表为空时）
	var accountCount int64
	DB.Model(&models.Account{}).Count(&accountCount)
	if accountCount == 0 {
		defaults := []models.Account{
			{Code: "1000", Name: "经营银行账户", Type: models.AccountTypeAsset, Purpose: models.PurposeBusiness},
			{Code: "1100", Name: "个人银行账户", Type: models.AccountTypeAsset, Purpose: models.PurposePersonal},
			{Code: "1500", Name: "房产资产", Type: models.AccountTypeAsset, Purpose: models.PurposeBusiness},
			{Code: "2000", Name: "信用卡", Type: models.AccountTypeLiability, Purpose: models.PurposeMixed},
			{Code: "2100", Name: "房产贷款", Type: models.AccountTypeLiability, Purpose: models.PurposeBusiness},
			{Code: "40000", Name: "工程收入", Type: models.AccountTypeIncome, Purpose: models.PurposeBusiness},
			{Code: "41000", Name: "租金收入", Type: models.AccountTypeIncome, Purpose: models.PurposeBusiness},
			{Code: "60000", Name: "工程支出", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "60001", Name: "工程材料", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "60002", Name: "工程人工", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "60003", Name: "交割费用", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "60004", Name: "持有成本", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "61000", Name: "市场推广", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "62000", Name: "管理费用", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "62003", Name: "贷款利息", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "62005", Name: "出租维修", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "62013", Name: "个人支出", Type: models.AccountTypeExpense, Purpose: models.PurposePersonal},
			{Code: "62014", Name: "翻新材料", Type: models.AccountTypeExpense, Purpose: models.PurposeBusiness},
			{Code: "69999", Name: "未分类导入", Type: models.AccountTypeExpense, Purpose: models.PurposeMixed},
		}
		for i := range defaults {
			defaults[i].Active = true
		}
		if err := DB.Create(&defaults).Error; err != nil {
			log.Printf("警告: 初始化默认科目失败: %v", err)
		}
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
