package sale

import (
	"context"

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

// CancelSaleRequest 撤销请求
type CancelSaleRequest struct {
	SaleID uint
	Actor  Actor
}

// CancelSaleUseCase 撤销销售单
// 同一事务内:锁定销售单 → 逐项归还库存 → 删除销售单及明细
type CancelSaleUseCase struct {
	saleRepo    sale.Repository
	productRepo product.Repository
	txManager   *mysql.TxManager
	publisher   EventPublisher
}

// NewCancelSaleUseCase 创建撤销用例
func NewCancelSaleUseCase(
	saleRepo sale.Repository,
	productRepo product.Repository,
	txManager *mysql.TxManager,
	publisher EventPublisher,
) *CancelSaleUseCase {
	metrics.InitMetrics()
	return &CancelSaleUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// Execute 执行撤销
// 归还数量等于销售时的扣减数量,不检查库存上限
// 销售单被锁定后再删除,并发撤销同一单只会有一个成功,另一个得到SaleNotFound
func (uc *CancelSaleUseCase) Execute(ctx context.Context, req CancelSaleRequest) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CancelSale", trace.WithAttributes(
		attribute.Int64("sale.id", int64(req.SaleID)),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var cancelled *sale.Sale
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		s, err := uc.saleRepo.LockByID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if !req.Actor.CanAccess(s) {
			return sale.ErrForbidden
		}

		for _, item := range s.Items {
			if err := uc.productRepo.UpdateStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := uc.saleRepo.Delete(ctx, s.ID); err != nil {
			return err
		}

		cancelled = s
		return nil
	})
	if err != nil {
		appErr := apperrors.GetAppError(err)
		tracing.RecordError(span, err)
		log.Info("cancel sale failed",
			zap.Uint("sale_id", req.SaleID),
			zap.Uint("actor_id", req.Actor.UserID),
			zap.String("kind", appErr.Kind()),
			zap.Error(err),
		)
		return appErr
	}

	metrics.IncCounter(metrics.SalesCancelledTotal)
	log.Info("sale cancelled",
		zap.Uint("sale_id", cancelled.ID),
		zap.String("sale_no", cancelled.SaleNo),
		zap.Uint("actor_id", req.Actor.UserID),
		zap.Int("items", len(cancelled.Items)),
	)

	if err := uc.publisher.Publish(ctx, RoutingKeySaleCancelled, NewEvent(cancelled)); err != nil {
		log.Warn("publish sale event failed", zap.String("routing_key", RoutingKeySaleCancelled), zap.Uint("sale_id", cancelled.ID), zap.Error(err))
	}

	return nil
}
