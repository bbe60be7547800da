package sale

import (
	"context"
	"time"

	"github.com/xiebiao/pos-inventory/internal/domain/sale"
)

// 销售事件路由键
const (
	RoutingKeySalePlaced    = "sale.placed"
	RoutingKeySaleCancelled = "sale.cancelled"
)

// Event 销售事件(提交成功后发布)
type Event struct {
	SaleID     uint        `json:"sale_id"`
	SaleNo     string      `json:"sale_no"`
	UserID     uint        `json:"user_id"`
	Total      string      `json:"total"`
	Items      []EventItem `json:"items"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventItem 事件中的明细
type EventItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// EventPublisher 事件发布接口
// 启用消息队列时为MQEventPublisher,否则由报表缓存失效器在进程内直接处理
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event Event) error
}

// NewEvent 由销售单构造事件
func NewEvent(s *sale.Sale) Event {
	items := make([]EventItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = EventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		}
	}
	return Event{
		SaleID:     s.ID,
		SaleNo:     s.SaleNo,
		UserID:     s.UserID,
		Total:      s.Total.StringFixed(2),
		Items:      items,
		OccurredAt: time.Now(),
	}
}
