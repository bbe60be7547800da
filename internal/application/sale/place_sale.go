package sale

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/pos-inventory/internal/domain/product"
	"github.com/xiebiao/pos-inventory/internal/domain/sale"
	"github.com/xiebiao/pos-inventory/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
	"github.com/xiebiao/pos-inventory/pkg/logger"
	"github.com/xiebiao/pos-inventory/pkg/metrics"
	"github.com/xiebiao/pos-inventory/pkg/tracing"
)

const tracerName = "pos-inventory/application/sale"

// PlaceSaleUseCase 下单用例(销售事务引擎)
// 在一个事务内:逐项锁定商品 → 校验库存 → 扣减库存 → 记录价格快照 → 写入销售单
// 任何一步失败整体回滚,商品库存回到调用前的状态
type PlaceSaleUseCase struct {
	saleRepo    sale.Repository
	productRepo product.Repository
	txManager   *mysql.TxManager
	publisher   EventPublisher
}

// NewPlaceSaleUseCase 创建下单用例
func NewPlaceSaleUseCase(
	saleRepo sale.Repository,
	productRepo product.Repository,
	txManager *mysql.TxManager,
	publisher EventPublisher,
) *PlaceSaleUseCase {
	metrics.InitMetrics()
	return &PlaceSaleUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// Execute 执行下单
//
// 防止超卖:
//  1. SELECT ... FOR UPDATE 锁定商品行(锁持有到事务结束)
//  2. 在锁内校验库存
//  3. 条件更新扣减库存(stock + delta >= 0 兜底)
//  4. 写入销售单
//  5. COMMIT释放锁
//
// 明细严格按提交顺序处理:同一商品出现多次时,后一项看到的是前一项扣减后的库存
func (uc *PlaceSaleUseCase) Execute(ctx context.Context, req PlaceSaleRequest) (*SaleResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "PlaceSale", trace.WithAttributes(
		attribute.Int64("sale.user_id", int64(req.UserID)),
		attribute.Int("sale.item_count", len(req.Items)),
	))
	defer span.End()

	start := time.Now()
	metrics.IncGauge(metrics.SalesInProgress)
	defer metrics.DecGauge(metrics.SalesInProgress)

	log := logger.FromContext(ctx)

	s, err := uc.place(ctx, req, span)
	if err != nil {
		appErr := apperrors.GetAppError(err)
		metrics.IncCounterVec(metrics.SalesFailedTotal, map[string]string{"kind": appErr.Kind()})
		tracing.RecordError(span, err)

		fields := []zap.Field{
			zap.Uint("user_id", req.UserID),
			zap.Int("items", len(req.Items)),
			zap.String("kind", appErr.Kind()),
			zap.Error(err),
		}
		if appErr.Code >= apperrors.ErrCodeInternal {
			log.Error("place sale failed", fields...)
		} else {
			log.Info("place sale rejected", fields...)
		}
		return nil, appErr
	}

	metrics.IncCounter(metrics.SalesPlacedTotal)
	metrics.ObserveHistogram(metrics.SaleCreationDuration, time.Since(start).Seconds())
	metrics.ObserveHistogram(metrics.SaleAmount, s.Total.InexactFloat64())
	span.SetAttributes(attribute.Int64("sale.id", int64(s.ID)), attribute.String("sale.total", s.Total.StringFixed(2)))

	log.Info("sale placed",
		zap.Uint("sale_id", s.ID),
		zap.String("sale_no", s.SaleNo),
		zap.Uint("user_id", s.UserID),
		zap.String("total", s.Total.StringFixed(2)),
		zap.Int("items", len(s.Items)),
	)

	// 事务已提交,发布失败只记录日志,不影响下单结果
	if err := uc.publisher.Publish(ctx, RoutingKeySalePlaced, NewEvent(s)); err != nil {
		log.Warn("publish sale event failed", zap.String("routing_key", RoutingKeySalePlaced), zap.Uint("sale_id", s.ID), zap.Error(err))
	}

	return ToSaleResult(s), nil
}

// place 校验参数并在事务内完成扣减与落库
func (uc *PlaceSaleUseCase) place(ctx context.Context, req PlaceSaleRequest, span trace.Span) (*sale.Sale, error) {
	// 1. 参数校验(事务外,不触碰任何数据)
	if len(req.Items) == 0 {
		return nil, sale.ErrEmptyItemList
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, sale.ErrInvalidQuantity.WithDetails(map[string]interface{}{
				"index":      i,
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			})
		}
	}

	var created *sale.Sale
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		lines := make([]sale.LineItem, 0, len(req.Items))

		for _, item := range req.Items {
			// 2. 锁定商品
			p, err := uc.productRepo.LockByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, product.ErrProductNotFound) {
					return product.ErrProductNotFound.WithDetails(map[string]uint{"product_id": item.ProductID})
				}
				return err
			}

			// 3. 校验库存(锁内读取的库存已包含本事务前面明细的扣减)
			if err := p.DecrStock(item.Quantity); err != nil {
				return err
			}

			// 4. 扣减库存
			if err := uc.productRepo.UpdateStock(ctx, p.ID, -item.Quantity); err != nil {
				return err
			}

			// 5. 记录价格快照
			lines = append(lines, sale.LineItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   p.UnitPrice,
			})

			span.AddEvent("stock.reserved", trace.WithAttributes(
				attribute.Int64("product.id", int64(p.ID)),
				attribute.Int("quantity", item.Quantity),
				attribute.Int("stock.remaining", p.Stock),
			))
		}

		// 6. 总金额由明细计算
		s, err := sale.NewSale(sale.GenerateSaleNo(), req.UserID, lines)
		if err != nil {
			return err
		}

		// 7. 写入销售单(失败则连同前面的扣减一起回滚)
		if err := uc.saleRepo.Create(ctx, s); err != nil {
			return err
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
