package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，driver=mysql用于生产，driver=sqlite用于单机部署和测试
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择驱动
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// SQLite只允许单写者：单连接让事务串行执行，且连接常驻（:memory:库随连接关闭而丢失）
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 6. 自动迁移表结构
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&ProviderModel{},
		&ProductModel{},
		&SaleModel{},
		&SaleItemModel{},
		&DebtModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:50;not null;comment:姓名"`
	Role      string         `gorm:"size:20;not null;default:employee;comment:角色(admin/employee)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 单价使用decimal(12,2)存储,避免浮点误差
// 2. stock只通过UpdateStock原子更新(不走Save,防止覆盖并发扣减)
// 3. 分类、供应商为可空外键,删除时置空
type ProductModel struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"index:idx_search;size:200;not null;comment:商品名称"`
	Description string          `gorm:"type:text;comment:商品描述"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:单价"`
	Stock       int             `gorm:"not null;default:0;comment:库存数量"`
	CategoryID  *uint           `gorm:"index;comment:分类ID"`
	Category    *CategoryModel  `gorm:"constraint:OnDelete:SET NULL"`
	ProviderID  *uint           `gorm:"index;comment:供应商ID"`
	Provider    *ProviderModel  `gorm:"constraint:OnDelete:SET NULL"`
	CreatedBy   uint            `gorm:"index;comment:创建人用户ID"`
	CreatedAt   time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel GORM分类模型(硬删除)
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:255;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// ProviderModel GORM供应商模型(硬删除)
// Email为NULL时不参与唯一索引,允许多个供应商不填邮箱
type ProviderModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;comment:供应商名称"`
	Phone     string    `gorm:"size:20;comment:电话"`
	Email     *string   `gorm:"uniqueIndex;size:255;comment:邮箱"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ProviderModel) TableName() string {
	return "providers"
}

// SaleModel GORM销售单模型
// 1. 与SaleItemModel是一对多关系,明细随销售单级联删除
// 2. SaleNo有唯一索引(业务单号)
type SaleModel struct {
	ID        uint            `gorm:"primaryKey"`
	SaleNo    string          `gorm:"uniqueIndex;size:32;not null;comment:销售单号"`
	UserID    uint            `gorm:"index;not null;comment:经办员工ID"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null;comment:总金额"`
	Items     []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel GORM销售明细模型
// UnitPrice为成交时的单价快照
type SaleItemModel struct {
	ID          uint            `gorm:"primaryKey"`
	SaleID      uint            `gorm:"index;not null;comment:销售单ID"`
	LineNo      int             `gorm:"not null;comment:明细序号(提交顺序)"`
	ProductID   uint            `gorm:"index;not null;comment:商品ID"`
	ProductName string          `gorm:"size:200;comment:成交时商品名称"`
	Quantity    int             `gorm:"not null;comment:数量"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:成交单价"`
}

// TableName 指定表名
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// DebtModel GORM欠款模型
type DebtModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null;comment:欠款员工ID"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:欠款金额"`
	Description string          `gorm:"size:500;comment:说明"`
	Paid        bool            `gorm:"not null;default:false;comment:是否已还清"`
	CreatedAt   time.Time       `gorm:"comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (DebtModel) TableName() string {
	return "debts"
}
