package product

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
//  1. 由domain层定义接口,infrastructure层实现
//  2. 事务通过context传递,LockByID/UpdateStock必须在TxManager.Transaction内调用
//     才能与销售单写入处于同一个事务边界
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, p *Product) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// Update 更新商品信息(名称、描述、单价等,不含库存)
	Update(ctx context.Context, p *Product) error

	// Delete 删除商品(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询商品列表
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)

	// LockByID 悲观锁查询商品(SELECT ... FOR UPDATE)
	// 锁持有到事务结束,防止并发超卖
	LockByID(ctx context.Context, id uint) (*Product, error)

	// UpdateStock 原子更新库存
	// delta为正数表示增加,负数表示减少
	// 减少时若库存不足返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error

	// Summary 商品数与库存总量(报表统计)
	Summary(ctx context.Context) (count int64, totalStock int64, err error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索关键词(名称、描述)
	CategoryID uint   // 按分类过滤(0表示不限)
	ProviderID uint   // 按供应商过滤(0表示不限)
	SortBy     string // 排序字段(price_asc, price_desc, stock_asc, created_at_desc)
}
